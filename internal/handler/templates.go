package handler

import (
	"html/template"
	"time"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
	}
}
