package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/LianHaeming/llmguide/content"
	"github.com/LianHaeming/llmguide/progress"
	"github.com/LianHaeming/llmguide/storage"
)

var progressJSON bool

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset saved reading progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show [page]",
	Short: "Show saved progress for every tracked page, or one page",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProgressShow,
}

var progressResetCmd = &cobra.Command{
	Use:   "reset <page>",
	Short: "Clear saved progress for a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressReset,
}

func init() {
	progressShowCmd.Flags().BoolVar(&progressJSON, "json", false, "Print JSON instead of a table")
}

func runProgressShow(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	record, err := storage.NewProgressStore(cfg.ProgressPath).Load()
	if err != nil {
		return err
	}

	var summaries []progress.Summary
	if len(args) == 1 {
		page, err := trackedPage(catalog, args[0])
		if err != nil {
			return err
		}
		summaries = append(summaries, progress.Summarize(record, page))
	} else {
		summaries = progress.SummarizeAll(record, catalog)
	}

	out := cmd.OutOrStdout()
	if progressJSON {
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, s := range summaries {
		fmt.Fprintf(out, "%-16s %3d%%  %d/%d\n", s.Page, s.Percent, len(s.Completed), s.Total)
		for _, title := range s.Completed {
			fmt.Fprintf(out, "    ✓ %s\n", title)
		}
	}
	return nil
}

func runProgressReset(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	page, err := trackedPage(catalog, args[0])
	if err != nil {
		return err
	}

	tracker := progress.NewTracker(storage.NewProgressStore(cfg.ProgressPath), logger)
	tracker.Reset(page.Key, page.Titles())
	if warnings := tracker.TakeWarnings(); len(warnings) > 0 {
		return fmt.Errorf("reset %s: %s", page.Key, strings.Join(warnings, "; "))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s has been reset.\n", page.Key)
	return nil
}

func trackedPage(catalog *content.Catalog, key string) (*content.Page, error) {
	page, ok := catalog.Page(key)
	if !ok || !page.Tracked {
		var keys []string
		for _, p := range catalog.Tracked() {
			keys = append(keys, p.Key)
		}
		return nil, fmt.Errorf("unknown tracked page %q (one of: %s)", key, strings.Join(keys, ", "))
	}
	return page, nil
}
