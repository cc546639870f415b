// Package songlink converts single-platform music URLs into
// platform-agnostic smart links via the song.link redirector.
package songlink
