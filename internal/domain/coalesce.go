package domain

import "strings"

// Overlay returns *upd when an edit supplied a value and cur otherwise.
// Partial edits of plan settings and members are assembled field by field
// with it, so a nil field leaves the stored value alone.
func Overlay[T any](cur T, upd *T) T {
	if upd == nil {
		return cur
	}
	return *upd
}

// NameOr returns name, or fallback when name is blank. It picks the plan a
// staging bucket lands in when the bucket carries no plan name.
func NameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
