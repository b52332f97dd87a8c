package views

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available inside page templates.
var Funcs = template.FuncMap{
	"formatTime": formatTime,
	"countdown":  countdown,
}

// Load parses every embedded page template.
func Load() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(Funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func formatTime(t any) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format("2006-01-02 15:04")
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatTime(*v)
	default:
		return ""
	}
}

// countdown renders a wait as whole hours and minutes, both truncated.
func countdown(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	return fmt.Sprintf("%dh %dm", int(d/time.Hour), int((d%time.Hour)/time.Minute))
}
