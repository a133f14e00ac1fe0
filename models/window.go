package models

import "time"

// Window je vremenski opseg za agregaciju poena. Nil granica znači neograničeno,
// pa all-time prozor ima obe granice nil. Granice su inkluzivne.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains proverava da li trenutak upada u prozor (inkluzivno sa obe strane).
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// Bounded vraća true ako prozor ima bar jednu granicu.
func (w Window) Bounded() bool {
	return w.Start != nil || w.End != nil
}

// AllTimeWindow — neograničen prozor.
func AllTimeWindow() Window {
	return Window{}
}

// TodayWindow pokriva lokalni dan: od ponoći do poslednjeg nanosekunda pre sledeće ponoći.
func TodayWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return Window{Start: &start, End: &end}
}

// WeekWindow pokriva ISO nedelju: ponedeljak 00:00:00 do nedelje 23:59:59.999.
func WeekWindow(now time.Time) Window {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // nedelja je 7, ne 0
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(weekday - 1))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return Window{Start: &start, End: &end}
}

// MonthWindow pokriva kalendarski mesec, od prvog do poslednjeg dana.
func MonthWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Window{Start: &start, End: &end}
}

// WindowForPeriod mapira naziv perioda iz query parametra na prozor.
// Nepoznat period se tretira kao all-time.
func WindowForPeriod(period string, now time.Time) Window {
	switch period {
	case "today":
		return TodayWindow(now)
	case "week":
		return WeekWindow(now)
	case "month":
		return MonthWindow(now)
	default:
		return AllTimeWindow()
	}
}
