package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/scrapex/outreach-engine/internal/caller"
	"github.com/scrapex/outreach-engine/internal/model"
)

var (
	callsFacility string
	callsJSON     bool
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Inspect the outbound call archive",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		records, err := st.ListCalls(ctx, callsFacility)
		if err != nil {
			return eris.Wrap(err, "list calls")
		}

		if callsJSON {
			return printJSON(records)
		}
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No calls recorded.")
			return nil
		}

		formatCallsList(os.Stdout, records)
		return nil
	},
}

var callsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate call statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		records, err := st.ListCalls(ctx, "")
		if err != nil {
			return eris.Wrap(err, "list calls")
		}

		stats := caller.Stats(records)
		if callsJSON {
			return printJSON(stats)
		}

		formatCallStats(os.Stdout, stats)
		return nil
	},
}

func init() {
	callsCmd.Flags().StringVar(&callsFacility, "facility", "", "filter by exact facility name")
	callsCmd.PersistentFlags().BoolVar(&callsJSON, "json", false, "emit JSON instead of a table")

	callsCmd.AddCommand(callsStatsCmd)
	rootCmd.AddCommand(callsCmd)
}

// formatCallsList writes a tabular call history to w.
func formatCallsList(out io.Writer, records []model.CallRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFACILITY\tPHONE\tSTATUS\tOUTCOME\tDURATION\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t--------\t-----\t------\t-------\t--------\t-------")

	for _, r := range records {
		facility := r.FacilityName
		if len(facility) > 30 {
			facility = facility[:27] + "..."
		}

		duration := ""
		if r.Duration != nil {
			duration = fmt.Sprintf("%ds", *r.Duration)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			facility,
			r.PhoneNumber,
			r.Status,
			r.Outcome,
			duration,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatCallStats writes the aggregate rollup to w.
func formatCallStats(out io.Writer, s model.CallStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total calls:\t%d\n", s.TotalCalls)
	_, _ = fmt.Fprintf(w, "Completed:\t%d\n", s.CompletedCalls)
	_, _ = fmt.Fprintf(w, "Failed:\t%d\n", s.FailedCalls)
	_, _ = fmt.Fprintf(w, "Success rate:\t%.1f%%\n", s.SuccessRate)
	_, _ = fmt.Fprintf(w, "Avg duration:\t%.1fs\n", s.AverageDuration)

	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", status, s.ByStatus[model.CallStatus(status)])
	}
	_ = w.Flush()
}
