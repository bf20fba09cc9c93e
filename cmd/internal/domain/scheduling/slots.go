package scheduling

import (
	"iter"
	"slices"
)

// Slot is a bookable [Start, End) interval, identified by Start.
type Slot struct {
	Start Clock
	End   Clock
}

// Slots yields the candidate slots of a template in chronological order.
// A candidate is dropped when it intersects any break; a trailing
// candidate that would run past End is never produced.
func Slots(t DayTemplate) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		if !t.Enabled || t.SlotMinutes <= 0 {
			return
		}
		for cur := t.Start; cur.Add(t.SlotMinutes) <= t.End; cur = cur.Add(t.SlotMinutes) {
			s := Slot{Start: cur, End: cur.Add(t.SlotMinutes)}
			if inBreak(t.Breaks, s) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// SlotAt returns the candidate slot starting at start, if the template
// produces one.
func SlotAt(t DayTemplate, start Clock) (Slot, bool) {
	for s := range Slots(t) {
		if s.Start == start {
			return s, true
		}
		if s.Start > start {
			break
		}
	}
	return Slot{}, false
}

// FreeSlots returns the candidates whose start is not in occupied.
func FreeSlots(t DayTemplate, occupied map[Clock]bool) []Slot {
	free := make([]Slot, 0)
	for s := range Slots(t) {
		if !occupied[s.Start] {
			free = append(free, s)
		}
	}
	return free
}

func CountSlots(t DayTemplate) int {
	return len(slices.Collect(Slots(t)))
}

func inBreak(breaks []Break, s Slot) bool {
	for _, b := range breaks {
		if b.Overlaps(s.Start, s.End) {
			return true
		}
	}
	return false
}
