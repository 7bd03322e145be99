package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/habitr/internal/habit"
)

func ToCSV(habits []habit.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Name", "Category", "Color", "Streak", "Total", "Completed Today", "Created", "History"}); err != nil {
		return err
	}

	for _, h := range habits {
		row := []string{
			h.ID,
			h.Name,
			string(h.Category),
			h.Color,
			strconv.Itoa(h.Streak),
			strconv.Itoa(h.TotalCompletions),
			strconv.FormatBool(h.CompletedToday),
			h.CreatedAt.Local().Format(time.RFC3339),
			strings.Join(h.CompletionHistory, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
