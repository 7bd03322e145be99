package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/habitr/internal/habit"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Summary    habit.Summary `json:"summary"`
	Habits     []habit.Habit `json:"habits"`
}

func ToJSON(habits []habit.Habit, path string) error {
	if habits == nil {
		habits = []habit.Habit{}
	}
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(habits),
		Summary:    habit.Summarize(habits),
		Habits:     habits,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
