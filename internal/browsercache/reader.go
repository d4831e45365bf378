package browsercache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Reader provides read-only lookup over a set of per-category cache files.
// Categories are loaded lazily on first access and cached for the lifetime
// of the Reader — the files never change underneath a running process;
// writes come from a separate regeneration utility run offline.
type Reader struct {
	dir string

	mu     sync.Mutex
	loaded map[string][]Entry
}

// NewReader creates a Reader rooted at dir. Missing category files are not
// an error; they are treated as empty.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir, loaded: make(map[string][]Entry)}
}

// load returns the (possibly cached) entries for one category.
func (r *Reader) load(category string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entries, ok := r.loaded[category]; ok {
		return entries, nil
	}

	path := filepath.Join(r.dir, fileName(category))
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		r.loaded[category] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %q: %w", path, err)
	}

	var data fileFormat
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %q: %w", path, err)
	}

	r.loaded[category] = data.Items
	return data.Items, nil
}

// allEntries streams every category's entries in a fixed category order,
// so SearchCache's "file order" guarantee is well-defined across
// categories too.
func (r *Reader) allEntries() ([]Entry, error) {
	var all []Entry
	for _, cat := range Categories {
		entries, err := r.load(cat)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// SearchCache implements search_cache(query, limit):
// case-insensitive substring match over name and path, returning up to
// limit entries. An empty query returns up to limit entries in file order.
func (r *Reader) SearchCache(query string, limit int) ([]Entry, error) {
	all, err := r.allEntries()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var results []Entry
	for _, e := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Path), needle) {
			continue
		}
		results = append(results, e)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// ResolveByName implements resolve_by_name(name, category?):
// the first entry whose name matches exactly, case-insensitively. An empty
// category searches every category in Categories order.
func (r *Reader) ResolveByName(name, category string) (Entry, bool, error) {
	cats := Categories
	if category != "" {
		cats = []string{category}
	}

	for _, cat := range cats {
		entries, err := r.load(cat)
		if err != nil {
			return Entry{}, false, err
		}
		for _, e := range entries {
			if strings.EqualFold(e.Name, name) {
				return e, true, nil
			}
		}
	}
	return Entry{}, false, nil
}
