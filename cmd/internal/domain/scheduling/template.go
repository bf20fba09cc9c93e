package scheduling

import (
	"fmt"
	"slices"
)

// MaxSlotMinutes bounds a single slot to one working day.
const MaxSlotMinutes = 24 * 60

type Break struct {
	Start Clock
	End   Clock
}

// Overlaps reports whether [start, end) intersects the break.
// Intervals that only touch at an endpoint do not overlap.
func (b Break) Overlaps(start, end Clock) bool {
	return start < b.End && b.Start < end
}

// DayTemplate is one doctor's working hours for one weekday.
type DayTemplate struct {
	Day         Weekday
	Enabled     bool
	Start       Clock
	End         Clock
	SlotMinutes int
	Breaks      []Break
}

// TemplateError describes a single rule a template violates.
type TemplateError struct {
	Field   string
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the write-time invariants of a template. Breaks are
// checked in chronological order regardless of how they were supplied.
func (t DayTemplate) Validate() error {
	if _, ok := ParseWeekday(string(t.Day)); !ok {
		return &TemplateError{Field: "dayOfWeek", Message: "must be a weekday name"}
	}
	if t.Start >= t.End {
		return &TemplateError{Field: "startTime", Message: "must be before endTime"}
	}
	if t.SlotMinutes <= 0 || t.SlotMinutes > MaxSlotMinutes {
		return &TemplateError{Field: "slotDuration", Message: "must be a positive number of minutes"}
	}
	if int(t.End-t.Start) < t.SlotMinutes {
		return &TemplateError{Field: "slotDuration", Message: "does not fit between startTime and endTime"}
	}

	breaks := t.SortedBreaks()
	for i, b := range breaks {
		if b.Start >= b.End {
			return &TemplateError{Field: "breaks", Message: fmt.Sprintf("break %s-%s must start before it ends", b.Start, b.End)}
		}
		if b.Start < t.Start || b.End > t.End {
			return &TemplateError{Field: "breaks", Message: fmt.Sprintf("break %s-%s is outside working hours", b.Start, b.End)}
		}
		if i > 0 && breaks[i-1].End > b.Start {
			return &TemplateError{Field: "breaks", Message: fmt.Sprintf("break %s-%s overlaps break %s-%s", b.Start, b.End, breaks[i-1].Start, breaks[i-1].End)}
		}
	}
	return nil
}

func (t DayTemplate) SortedBreaks() []Break {
	breaks := slices.Clone(t.Breaks)
	slices.SortFunc(breaks, func(a, b Break) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return int(a.End - b.End)
	})
	return breaks
}
