package export

import (
	"fmt"
	"html/template"
	"os"

	"github.com/sadopc/habitr/internal/habit"
)

// Names are stored raw; html/template escapes them here.
var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>habitr report {{.Date}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.card { border-left: 6px solid var(--habit-color); padding: .5rem 1rem; margin: .5rem 0; }
.week { display: flex; gap: 1rem; align-items: flex-end; height: 8rem; }
.bar { width: 2rem; background: #6366f1; }
.bar.today { background: #ec4899; }
</style>
</head>
<body>
<h1>Habits</h1>
<p>{{.Summary.TotalHabits}} habits, {{.Summary.CompletedToday}} done today ({{.Summary.SuccessRate}}%), total streak {{.Summary.TotalStreak}}</p>
{{range .Habits}}<div class="card" style="--habit-color: {{.Color}}">
<h3>{{.Name}}</h3>
<div>{{.Category.Label}} &middot; {{.Streak}} days &middot; {{.TotalCompletions}} total{{if .CompletedToday}} &middot; completed{{end}}</div>
</div>
{{else}}<p>No habits yet</p>
{{end}}
<h2>This week</h2>
<div class="week">
{{range .Week}}<div><div class="bar{{if .IsToday}} today{{end}}" style="height: {{pct .Percent}}"></div>{{.Label}} {{.Completions}}</div>
{{end}}</div>
</body>
</html>
`))

type reportData struct {
	Date    string
	Summary habit.Summary
	Habits  []habit.Habit
	Week    []habit.DayCount
}

// ToHTML writes a standalone report dated with the caller's day key.
func ToHTML(habits []habit.Habit, week []habit.DayCount, date, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html file: %w", err)
	}
	defer f.Close()

	data := reportData{
		Date:    date,
		Summary: habit.Summarize(habits),
		Habits:  habits,
		Week:    week,
	}
	if err := reportTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
