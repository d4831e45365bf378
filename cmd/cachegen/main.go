// Command cachegen builds a Browser Cache Reader cache file for one browser
// category by walking a directory of sample/preset files. It is offline
// tooling, never run by the bridge itself — the core process only ever
// reads these cache files.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ableton-mcp/remote-bridge/internal/browsercache"
	"github.com/dhowden/tag"
)

// supportedExt lists the file extensions cachegen will index. Ableton's own
// browser indexes presets (.adg/.adv) alongside audio samples; dhowden/tag
// only understands the latter, so preset files fall back to filename-derived
// names.
var supportedExt = map[string]bool{
	".wav": true, ".aif": true, ".aiff": true, ".mp3": true, ".flac": true, ".ogg": true,
	".adg": true, ".adv": true,
}

func main() {
	dir := flag.String("dir", "", "directory to scan for assets (required)")
	category := flag.String("category", "", "browser category these assets belong to, e.g. samples (required)")
	cacheDir := flag.String("cache-dir", "./browser_cache", "directory to write <category>_cache.json into")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *dir == "" || *category == "" {
		fmt.Fprintln(os.Stderr, "usage: cachegen -dir <assets-dir> -category <category> [-cache-dir <dir>]")
		os.Exit(2)
	}

	valid := false
	for _, c := range browsercache.Categories {
		if c == *category {
			valid = true
			break
		}
	}
	if !valid {
		slog.Error("unrecognized category", "category", *category, "valid", browsercache.Categories)
		os.Exit(2)
	}

	entries, err := scanAssets(*dir, *category)
	if err != nil {
		slog.Error("scan failed", "dir", *dir, "error", err)
		os.Exit(1)
	}

	store, err := browsercache.NewStore(*cacheDir)
	if err != nil {
		slog.Error("failed to open cache directory", "dir", *cacheDir, "error", err)
		os.Exit(1)
	}

	if err := store.WriteCategory(*category, entries); err != nil {
		slog.Error("failed to write cache", "category", *category, "error", err)
		os.Exit(1)
	}

	slog.Info("cache written", "category", *category, "entries", len(entries), "dir", store.Dir())
}

// scanAssets walks dir and builds one Entry per supported file, using tag
// metadata for the display name when available and falling back to the
// filename (see assetName).
func scanAssets(dir, category string) ([]browsercache.Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", dir)
	}

	var entries []browsercache.Entry

	err = filepath.Walk(dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			slog.Warn("error accessing path during scan", "path", path, "error", walkErr)
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExt[ext] {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}

		entries = append(entries, browsercache.Entry{
			Name:     assetName(absPath),
			Category: category,
			Path:     absPath,
			URI:      "",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// assetName derives a display name for path: the tag-embedded title for
// audio files that carry one, otherwise the filename without extension.
func assetName(path string) string {
	filename := filepath.Base(path)
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	f, err := os.Open(path)
	if err != nil {
		return name
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		slog.Debug("could not read tags", "path", path, "error", err)
		return name
	}
	if m.Title() != "" {
		return m.Title()
	}
	return name
}
