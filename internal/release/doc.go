// Package release checks the installed downloader against its published
// release. It fetches a release manifest (by default the yt-dlp
// latest-release endpoint) and classifies the installed version as up to
// date, behind, or ahead of it. Nothing is ever downloaded or installed;
// reel only reports.
package release
