// Package menu implements the interactive dispatch loop. It owns prompting
// and option sequencing only; every action behind a menu entry is supplied by
// the caller, so the loop itself stays independent of downloader wiring.
package menu
