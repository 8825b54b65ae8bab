// Package jalali converts dates between the proleptic Gregorian calendar and
// the Persian (Jalali, Solar Hijri) calendar.
//
// All functions are pure arithmetic over plain integers and are safe for
// concurrent use. Month numbers are 1-based in both calendars. The Jalali
// year has six 31 day months, five 30 day months and a final month of 29
// days, or 30 in a leap year. Which years are leap is decided by a LeapRule;
// the package level functions use Arithmetic33.
package jalali

import "time"

const (
	MinYear = 1
	MaxYear = 3177
)

// Converter converts dates under one LeapRule. The zero value is not usable;
// construct it with New.
type Converter struct {
	rule LeapRule
}

type Option func(*Converter)

func WithLeapRule(rule LeapRule) Option {
	return func(c *Converter) {
		if rule != nil {
			c.rule = rule
		}
	}
}

func New(opts ...Option) *Converter {
	c := &Converter{rule: Arithmetic33}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Converter) Rule() LeapRule { return c.rule }

func (c *Converter) IsLeap(year int) bool { return c.rule.IsLeap(year) }

// MonthDays returns the number of days in a Jalali month, or 0 for a bad month.
func (c *Converter) MonthDays(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if c.rule.IsLeap(year) {
			return 30
		}
		return 29
	}
	return 0
}

// Valid reports whether the date exists and lies within MinYear..MaxYear.
func (c *Converter) Valid(jy, jm, jd int) bool {
	return jy >= MinYear && jy <= MaxYear && jd >= 1 && jd <= c.MonthDays(jy, jm)
}

// GregorianToJalali returns the Jalali date naming the same day as the given
// Gregorian date.
func (c *Converter) GregorianToJalali(gy, gm, gd int) (jy, jm, jd int, err error) {
	if !validGregorian(gy, gm, gd) {
		return 0, 0, 0, dateError("gregorian to jalali", gy, gm, gd, ErrInvalidDate)
	}
	fixed := fixedFromGregorian(gy, gm, gd)
	if fixed < c.rule.NewYear(MinYear) || fixed >= c.rule.NewYear(MaxYear+1) {
		return 0, 0, 0, dateError("gregorian to jalali", gy, gm, gd, ErrOutOfRange)
	}

	jy = gy - 621
	for c.rule.NewYear(jy) > fixed {
		jy--
	}
	for c.rule.NewYear(jy+1) <= fixed {
		jy++
	}

	days := fixed - c.rule.NewYear(jy)
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return jy, jm, jd, nil
}

// JalaliToGregorian is the inverse of GregorianToJalali.
func (c *Converter) JalaliToGregorian(jy, jm, jd int) (gy, gm, gd int, err error) {
	if jy < MinYear || jy > MaxYear {
		return 0, 0, 0, dateError("jalali to gregorian", jy, jm, jd, ErrOutOfRange)
	}
	if jd < 1 || jd > c.MonthDays(jy, jm) {
		return 0, 0, 0, dateError("jalali to gregorian", jy, jm, jd, ErrInvalidDate)
	}
	gy, gm, gd = gregorianFromFixed(c.rule.NewYear(jy) + daysBeforeMonth(jm) + jd - 1)
	return gy, gm, gd, nil
}

// FromGregorian is GregorianToJalali returning a Date.
func (c *Converter) FromGregorian(gy, gm, gd int) (Date, error) {
	jy, jm, jd, err := c.GregorianToJalali(gy, gm, gd)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: jy, Month: jm, Day: jd}, nil
}

// FromTime converts the wall-clock date of t as it reads in t's own location.
func (c *Converter) FromTime(t time.Time) (Date, error) {
	y, m, d := t.Date()
	return c.FromGregorian(y, int(m), d)
}

// ToTime returns the instant at the given clock time on d in loc.
func (c *Converter) ToTime(d Date, hour, minute, sec, nsec int, loc *time.Location) (time.Time, error) {
	gy, gm, gd, err := c.JalaliToGregorian(d.Year, d.Month, d.Day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(gy, time.Month(gm), gd, hour, minute, sec, nsec, loc), nil
}

// Weekday returns the day of the week d falls on.
func (c *Converter) Weekday(d Date) (time.Weekday, error) {
	t, err := c.ToTime(d, 0, 0, 0, 0, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

func daysBeforeMonth(month int) int {
	if month <= 7 {
		return 31 * (month - 1)
	}
	return 186 + 30*(month-7)
}

var std = New()

func GregorianToJalali(gy, gm, gd int) (jy, jm, jd int, err error) {
	return std.GregorianToJalali(gy, gm, gd)
}

func JalaliToGregorian(jy, jm, jd int) (gy, gm, gd int, err error) {
	return std.JalaliToGregorian(jy, jm, jd)
}

func IsLeap(year int) bool { return std.IsLeap(year) }

func MonthDays(year, month int) int { return std.MonthDays(year, month) }

func Valid(jy, jm, jd int) bool { return std.Valid(jy, jm, jd) }

func FromGregorian(gy, gm, gd int) (Date, error) { return std.FromGregorian(gy, gm, gd) }

func FromTime(t time.Time) (Date, error) { return std.FromTime(t) }

func ToTime(d Date, hour, minute, sec, nsec int, loc *time.Location) (time.Time, error) {
	return std.ToTime(d, hour, minute, sec, nsec, loc)
}
