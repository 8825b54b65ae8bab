// Package persian adapts Go time values to Jalali date-times.
package persian

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

// Shape is the kind of host value a DateTime was produced from. It decides
// how the zone suffix is rendered.
type Shape int

const (
	ShapeNaive Shape = iota
	ShapeUTC
	ShapeZoned
)

func (s Shape) String() string {
	switch s {
	case ShapeNaive:
		return "naive"
	case ShapeUTC:
		return "utc"
	case ShapeZoned:
		return "zoned"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape accepts the names produced by Shape.String.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(name) {
	case "naive", "":
		return ShapeNaive, nil
	case "utc":
		return ShapeUTC, nil
	case "zoned", "local":
		return ShapeZoned, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// DateTime is a Jalali date with a wall-clock time. Only the date part
// differs from the Gregorian value it was converted from.
type DateTime struct {
	jalali.Date
	Hour       int
	Minute     int
	Second     int
	Nanosecond int

	shape  Shape
	offset int
	ref    *time.Location
	// zone is set when the offset was written out in parsed input.
	zone *time.Location
	cal  *jalali.Converter
}

func (dt DateTime) Shape() Shape { return dt.shape }

// Offset is the displayed UTC offset in seconds. It is always 0 for naive
// and UTC values.
func (dt DateTime) Offset() int { return dt.offset }

func (dt DateTime) Clock() (hour, minute, sec int) {
	return dt.Hour, dt.Minute, dt.Second
}

// String renders "YYYY-MM-DD HH:MM:SS" followed by " UTC" or " +HH:MM"
// depending on the shape.
func (dt DateTime) String() string {
	s := fmt.Sprintf("%s %02d:%02d:%02d", dt.Date, dt.Hour, dt.Minute, dt.Second)
	switch dt.shape {
	case ShapeUTC:
		return s + " UTC"
	case ShapeZoned:
		return s + " " + formatOffset(dt.offset)
	}
	return s
}

// Format replaces the numeric tokens YYYY, MM, DD, hh, mm, ss and +hh:mm in
// layout.
func (dt DateTime) Format(layout string) string {
	return strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", dt.Year),
		"MM", fmt.Sprintf("%02d", dt.Month),
		"DD", fmt.Sprintf("%02d", dt.Day),
		"+hh:mm", formatOffset(dt.offset),
		"hh", fmt.Sprintf("%02d", dt.Hour),
		"mm", fmt.Sprintf("%02d", dt.Minute),
		"ss", fmt.Sprintf("%02d", dt.Second),
	).Replace(layout)
}

// Gregorian returns the time.Time this value reads as. Naive values come
// back in UTC. A value parsed with an explicit offset comes back at that
// offset; other UTC and zoned values come back in the reference zone they
// were converted in, since their printed suffix is only a label.
func (dt DateTime) Gregorian() (time.Time, error) {
	loc := time.UTC
	switch {
	case dt.zone != nil:
		loc = dt.zone
	case dt.shape != ShapeNaive && dt.ref != nil:
		loc = dt.ref
	}
	if dt.cal != nil {
		return dt.cal.ToTime(dt.Date, dt.Hour, dt.Minute, dt.Second, dt.Nanosecond, loc)
	}
	return jalali.ToTime(dt.Date, dt.Hour, dt.Minute, dt.Second, dt.Nanosecond, loc)
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, seconds%3600/60)
}
