package model

import "strings"

// NormalizeType maps a free-form assessment type label to a canonical
// category used for lead-time and base-hour lookups. Unrecognised labels
// are returned lowercased and trimmed.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))

	switch {
	case strings.Contains(t, "assignment"):
		return "assignment"
	case strings.Contains(t, "quiz"):
		return "quiz"
	case strings.Contains(t, "mid") && strings.Contains(t, "term"):
		return "midterm"
	case strings.Contains(t, "final"):
		return "final"
	case strings.Contains(t, "exam"):
		return "exam"
	case strings.Contains(t, "project"):
		return "project"
	case strings.Contains(t, "present"):
		return "presentation"
	case strings.Contains(t, "lab"):
		return "lab"
	case strings.Contains(t, "report"):
		return "report"
	case strings.Contains(t, "case"):
		return "case_study"
	case strings.Contains(t, "discussion"):
		return "discussion"
	case strings.Contains(t, "read"):
		return "reading"
	case strings.Contains(t, "homework"), strings.Contains(t, "hw"):
		return "homework"
	case strings.Contains(t, "essay"):
		return "essay"
	}
	return t
}
