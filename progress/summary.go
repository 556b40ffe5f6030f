package progress

import (
	"github.com/LianHaeming/llmguide/content"
	"github.com/LianHaeming/llmguide/models"
)

// Summary is a page's persisted progress.
type Summary struct {
	Page      string   `json:"page"`
	Title     string   `json:"title"`
	Completed []string `json:"completed"`
	Total     int      `json:"total"`
	Percent   int      `json:"percent"`
}

// Summarize reports the page's entry in record. Titles that are no longer
// sections of the page are ignored.
func Summarize(record models.ProgressRecord, page *content.Page) Summary {
	s := Summary{
		Page:      page.Key,
		Title:     page.Title,
		Completed: []string{},
		Total:     len(page.Sections),
	}
	seen := map[string]bool{}
	for _, title := range record[page.Key] {
		if _, ok := page.Section(title); !ok || seen[title] {
			continue
		}
		seen[title] = true
		s.Completed = append(s.Completed, title)
	}
	s.Percent = Percent(len(s.Completed), s.Total)
	return s
}

// SummarizeAll summarizes every tracked page of the catalog, in order.
func SummarizeAll(record models.ProgressRecord, catalog *content.Catalog) []Summary {
	var out []Summary
	for _, p := range catalog.Tracked() {
		out = append(out, Summarize(record, p))
	}
	return out
}
