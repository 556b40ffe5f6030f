package models

import (
	"sort"
	"strings"
)

// ProgressRecord maps a page key ("home", "prompt", ...) to the titles of the
// sections marked complete on that page. Title order carries no meaning.
type ProgressRecord map[string][]string

// legacySuffix marks page keys written by older versions of the guide
// ("prompt_read_sections" instead of "prompt").
const legacySuffix = "_read_sections"

// Migrate renames legacy "<page>_read_sections" keys to "<page>". A key that
// already exists under the new name wins. The old shared "read_sections" key
// is left untouched.
func (r ProgressRecord) Migrate() {
	for key, titles := range r {
		if !strings.HasSuffix(key, legacySuffix) {
			continue
		}
		page := strings.TrimSuffix(key, legacySuffix)
		if page == "" {
			continue
		}
		if _, ok := r[page]; !ok {
			r[page] = titles
		}
		delete(r, key)
	}
}

// Normalize sorts and de-duplicates every page's titles so that equal sets
// always serialize identically.
func (r ProgressRecord) Normalize() {
	for key, titles := range r {
		seen := make(map[string]struct{}, len(titles))
		out := make([]string, 0, len(titles))
		for _, t := range titles {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
		sort.Strings(out)
		r[key] = out
	}
}
