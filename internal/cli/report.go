package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/habitr/internal/export"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and this week's completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			s := sess.tracker.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total streak:     %d\n", s.TotalStreak)
			fmt.Fprintf(out, "Completed today:  %d/%d\n", s.CompletedToday, s.TotalHabits)
			fmt.Fprintf(out, "Success rate:     %d%%\n", s.SuccessRate)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "This week:")
			for _, d := range sess.tracker.Week(sess.weekStart) {
				marker := " "
				if d.IsToday {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s %s  %-20s %d\n", marker, d.Label, d.Date,
					strings.Repeat("#", int(d.Percent/5)), d.Completions)
			}
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export habits as CSV, JSON or an HTML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "csv", "json", "html":
			default:
				return fmt.Errorf("unknown format %q: want csv, json or html", format)
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			if outPath == "" {
				outPath = fmt.Sprintf("habitr-export-%s.%s", sess.tracker.Today(), format)
			}
			habits := sess.tracker.List("")
			switch format {
			case "csv":
				err = export.ToCSV(habits, outPath)
			case "json":
				err = export.ToJSON(habits, outPath)
			case "html":
				err = export.ToHTML(habits, sess.tracker.Week(sess.weekStart), sess.tracker.Today(), outPath)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d habits to %s\n", len(habits), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json or html")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default habitr-export-DATE.EXT)")
	return cmd
}
