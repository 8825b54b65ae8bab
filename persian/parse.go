package persian

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrSyntax = errors.New("malformed datetime")

// Parse reads "YYYY-MM-DD[ HH:MM[:SS]][ UTC|±HH:MM]" as printed by
// DateTime.String. "/" and "." are accepted as date separators.
func Parse(s string) (DateTime, error) { return std.Parse(s) }

func (c *Converter) Parse(s string) (DateTime, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 3 {
		return DateTime{}, syntaxError(s)
	}

	y, m, d, err := ParseDate(fields[0])
	if err != nil {
		return DateTime{}, syntaxError(s)
	}
	if _, _, _, err := c.calendar.JalaliToGregorian(y, m, d); err != nil {
		return DateTime{}, err
	}
	dt := DateTime{ref: c.reference, cal: c.calendar}
	dt.Year, dt.Month, dt.Day = y, m, d

	if len(fields) > 1 {
		if dt.Hour, dt.Minute, dt.Second, err = parseClock(fields[1]); err != nil {
			return DateTime{}, syntaxError(s)
		}
	}
	if len(fields) > 2 {
		if fields[2] == "UTC" {
			dt.shape = ShapeUTC
		} else {
			zone, err := time.Parse("-07:00", fields[2])
			if err != nil {
				return DateTime{}, syntaxError(s)
			}
			dt.shape = ShapeZoned
			_, dt.offset = zone.Zone()
			dt.zone = time.FixedZone("", dt.offset)
		}
	}
	return dt, nil
}

func syntaxError(s string) error {
	return fmt.Errorf("persian: parse %q: %w", s, ErrSyntax)
}

// ParseDate splits a YYYY-MM-DD date into its fields without checking them
// against any calendar. "/" and "." are accepted as separators.
func ParseDate(s string) (year, month, day int, err error) {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, ErrSyntax
	}
	var values [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, 0, 0, ErrSyntax
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}

func parseClock(s string) (hour, minute, sec int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, ErrSyntax
	}
	limits := []int{23, 59, 59}
	var values [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > limits[i] {
			return 0, 0, 0, ErrSyntax
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}
