package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/habitr/internal/habit"
)

// shortIDLen is how much of an id list prints; any unique prefix is
// accepted back.
const shortIDLen = 8

var (
	errAmbiguousID = errors.New("ambiguous habit id")
	errEmptyID     = errors.New("habit id is required")
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var category, color string
	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Create a habit",
		Example: `  habitr add Drink water --category health
  habitr add "Read 20 pages" -c learning --color "#10b981"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := habit.ParseCategory(category)
			if err != nil {
				return err
			}
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			h, err := sess.tracker.Create(strings.Join(args, " "), c, color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s) %s\n", h.Name, h.Category, shortID(h.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(habit.Other), "health, learning, productivity, mindfulness or other")
	cmd.Flags().StringVar(&color, "color", habit.DefaultColor, "accent color")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter habit.Category
			if category != "" {
				c, err := habit.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = c
			}
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			habits := sess.tracker.List(filter)
			out := cmd.OutOrStdout()
			if len(habits) == 0 {
				fmt.Fprintln(out, "No habits yet. Add one with: habitr add NAME")
				return nil
			}
			fmt.Fprintln(out, habitTable(habits))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category")
	return cmd
}

func habitTable(habits []habit.Habit) string {
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		done := ""
		if h.CompletedToday {
			done = "✓"
		}
		rows = append(rows, []string{
			shortID(h.ID),
			h.Name,
			h.Category.Label(),
			strconv.Itoa(h.Streak),
			strconv.Itoa(h.TotalCompletions),
			done,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "STREAK", "TOTAL", "TODAY").
		Rows(rows...).
		String()
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"toggle"},
		Short:   "Toggle today's completion for a habit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			id, err := resolveID(sess.tracker, args[0])
			if errors.Is(err, habit.ErrNotFound) {
				return noMatch(out, args[0])
			}
			if err != nil {
				return err
			}
			h, err := sess.tracker.Toggle(id)
			if errors.Is(err, habit.ErrNotFound) {
				return noMatch(out, args[0])
			}
			if err != nil {
				return err
			}
			if h.CompletedToday {
				fmt.Fprintf(out, "Great job! %s streak: %d days\n", h.Name, h.Streak)
			} else {
				fmt.Fprintf(out, "Unmarked %s, streak: %d days\n", h.Name, h.Streak)
			}
			return nil
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a habit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			id, err := resolveID(sess.tracker, args[0])
			if errors.Is(err, habit.ErrNotFound) {
				return noMatch(out, args[0])
			}
			if err != nil {
				return err
			}
			h, _ := sess.tracker.Get(id)
			err = sess.tracker.Delete(id)
			if errors.Is(err, habit.ErrNotFound) {
				return noMatch(out, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %q\n", h.Name)
			return nil
		},
	}
}

// noMatch reports an unknown id. Missing habits are not a failure.
func noMatch(w io.Writer, arg string) error {
	fmt.Fprintf(w, "No habit matches %q\n", arg)
	return nil
}

// resolveID accepts a full id or a unique non-empty prefix of one.
func resolveID(tr *habit.Tracker, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errEmptyID
	}
	var match string
	for _, h := range tr.List("") {
		if h.ID == arg {
			return h.ID, nil
		}
		if strings.HasPrefix(h.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousID, arg)
			}
			match = h.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s: %w", arg, habit.ErrNotFound)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
