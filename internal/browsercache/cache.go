// Package browsercache implements the Browser Cache Reader:
// fast, offline lookup of pre-indexed browser assets (devices, samples) so
// asset-loading handlers don't have to traverse the live browser tree on
// every call. The core never writes these files — that's cmd/cachegen's
// job, via Store.
package browsercache

import "fmt"

// Entry is one browser cache entry.
type Entry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Path     string `json:"path"`
	URI      string `json:"uri,omitempty"`
}

// fileFormat is the on-disk shape of one category's cache file.
type fileFormat struct {
	Count int     `json:"count"`
	Items []Entry `json:"items"`
}

// Categories lists the canonical top-level categories a cache set covers,
// matching daw.NewSong's browser root.
var Categories = []string{
	"instruments", "sounds", "drums", "audio_effects", "midi_effects", "samples",
}

// fileName returns the on-disk file name for a category, e.g.
// "instruments_cache.json".
func fileName(category string) string {
	return fmt.Sprintf("%s_cache.json", category)
}
