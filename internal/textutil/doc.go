// Package textutil provides small text helpers shared by CLI output code,
// mainly rune-safe truncation for table cells.
package textutil
