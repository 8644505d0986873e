// Package notify delivers batch lifecycle events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and degrades to a no-op when no topic is set. Batch and error
// events can be toggled independently; callers depend only on the small
// Service interface, so batch runs never carry HTTP glue of their own.
package notify
