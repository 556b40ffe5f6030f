package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LianHaeming/llmguide/feedback"
	"github.com/LianHaeming/llmguide/storage"
)

var (
	feedbackPassphrase string
	feedbackOut        string
	feedbackYes        bool
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Export or clear collected feedback (admin)",
}

var feedbackExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all feedback as CSV",
	RunE:  runFeedbackExport,
}

var feedbackClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all feedback",
	RunE:  runFeedbackClear,
}

func init() {
	for _, c := range []*cobra.Command{feedbackExportCmd, feedbackClearCmd} {
		c.Flags().StringVar(&feedbackPassphrase, "passphrase", "", "Admin passphrase (must match ADMIN_PASSPHRASE)")
	}
	feedbackExportCmd.Flags().StringVarP(&feedbackOut, "out", "o", "feedback_backup.csv", `Output file, or "-" for stdout`)
	feedbackClearCmd.Flags().BoolVar(&feedbackYes, "yes", false, "Confirm deleting every entry")
}

func feedbackService() *feedback.Service {
	return feedback.NewService(storage.NewFeedbackTable(cfg.FeedbackPath), cfg.AdminPassphrase, logger)
}

func runFeedbackExport(cmd *cobra.Command, args []string) error {
	svc := feedbackService()
	if !svc.Authorize(feedbackPassphrase) {
		return feedback.ErrUnauthorized
	}
	if warnings := svc.TakeWarnings(); len(warnings) > 0 {
		return fmt.Errorf("export feedback: %s", strings.Join(warnings, "; "))
	}
	data, err := svc.ExportCSV()
	if err != nil {
		return err
	}

	if feedbackOut == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(feedbackOut, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", feedbackOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", svc.Count(), feedbackOut)
	return nil
}

func runFeedbackClear(cmd *cobra.Command, args []string) error {
	svc := feedbackService()
	n := svc.Count()
	if err := svc.ClearAll(feedbackPassphrase, feedbackYes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries.\n", n)
	return nil
}
