// Package deps inspects the external executables reel depends on: the media
// downloader (with its configured fallback) and the ffmpeg transcoder the
// downloader's post-processing hook invokes.
//
// Availability checks go through exec.LookPath; version probes run the
// binaries with their version flags under a short timeout. The status command
// and the download wiring resolve binaries through the same functions, so
// users see the same answer everywhere.
package deps
