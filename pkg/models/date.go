package models

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for note and schedule keys
const DateLayout = "2006-01-02"

// Date is a validated calendar date in YYYY-MM-DD form
type Date string

// ParseDate validates s and returns it as a Date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalid, s)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the calendar date of t in its own location
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns the date at midnight UTC. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Weekday returns the day of the week, Sunday=0
func (d Date) Weekday() Weekday {
	return Weekday(d.Time().Weekday())
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// WeekStart returns the Sunday on or before d
func (d Date) WeekStart() Date {
	return d.AddDays(-int(d.Weekday()))
}

func (d Date) String() string {
	return string(d)
}

// UnmarshalText validates dates decoded from JSON values and map keys
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Weekday is a day of the week from 0 (Sunday) to 6 (Saturday)
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Weekdays lists all days in order starting on Sunday
var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var weekdayKeys = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Valid reports whether w is within 0-6
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// Key returns the lowercase English day name used in translation keys
func (w Weekday) Key() string {
	if !w.Valid() {
		return ""
	}
	return weekdayKeys[w]
}

// ParseWeekday converts an integer to a validated Weekday
func ParseWeekday(n int) (Weekday, error) {
	w := Weekday(n)
	if !w.Valid() {
		return 0, fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalid, n)
	}
	return w, nil
}
