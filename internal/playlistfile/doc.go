// Package playlistfile reads the sectioned text file that feeds batch
// downloads: a [Video Playlists] section followed by an [Audio Playlists]
// section, one URL per line.
//
// Parsing is strict about structure. Both headers must be present in order,
// and anything else bracket-shaped is rejected, so a typo in a header never
// silently reroutes URLs into the wrong mode. Entry lines themselves are
// passed through untouched; URL validity is the downloader's problem.
package playlistfile
