package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrBadClock = errors.New("time must be in HH:MM format")

// Clock is a local wall-clock time of day, in minutes after midnight.
type Clock int

// ParseClock accepts a strict 24h "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrBadClock
	}
	h, okh := twoDigits(s[0:2])
	m, okm := twoDigits(s[3:5])
	if !okh || !okm || h > 23 || m > 59 {
		return 0, ErrBadClock
	}
	return Clock(h*60 + m), nil
}

func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(fmt.Sprintf("scheduling: %q: %v", s, err))
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// Weekday is the canonical English weekday name used by stored templates.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the weekdays in display order.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday is case-insensitive and returns the canonical name.
func ParseWeekday(s string) (Weekday, bool) {
	for _, d := range Week {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return "", false
}

func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday().String())
}

// ParseDate parses a date-only "YYYY-MM-DD" value as a wall-clock date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
