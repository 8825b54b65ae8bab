package persian

import (
	"time"

	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

// IranStandardTime is Iran's fixed +03:30 offset, the default reference zone.
var IranStandardTime = time.FixedZone("IRST", 3*3600+1800)

// Value is a Gregorian date-time in one of the supported host shapes:
// Naive, UTC or Zoned.
type Value interface {
	ToPersian() (DateTime, error)
	wall(ref *time.Location) (time.Time, Shape)
}

// Naive is a wall-clock date-time without a zone. Its location is ignored.
type Naive struct{ time.Time }

// UTC is an instant displayed in UTC.
type UTC struct{ time.Time }

// Zoned is an instant carrying its own UTC offset.
type Zoned struct{ time.Time }

func (n Naive) ToPersian() (DateTime, error) { return std.Convert(n) }
func (u UTC) ToPersian() (DateTime, error)   { return std.Convert(u) }
func (z Zoned) ToPersian() (DateTime, error) { return std.Convert(z) }

func (n Naive) wall(*time.Location) (time.Time, Shape) { return n.Time, ShapeNaive }

func (u UTC) wall(ref *time.Location) (time.Time, Shape) { return u.Time.In(ref), ShapeUTC }

func (z Zoned) wall(ref *time.Location) (time.Time, Shape) { return z.Time.In(ref), ShapeZoned }

// FromTime wraps t as UTC when its location is time.UTC and as Zoned
// otherwise. Use Naive explicitly for wall-clock values.
func FromTime(t time.Time) Value {
	if t.Location() == time.UTC {
		return UTC{t}
	}
	return Zoned{t}
}

// Converter turns Values into DateTimes.
type Converter struct {
	calendar  *jalali.Converter
	reference *time.Location
}

type Option func(*Converter)

// WithCalendar sets the Jalali converter, and with it the leap rule.
func WithCalendar(calendar *jalali.Converter) Option {
	return func(c *Converter) {
		if calendar != nil {
			c.calendar = calendar
		}
	}
}

// WithReference sets the zone instants are projected onto before their
// date is read.
func WithReference(loc *time.Location) Option {
	return func(c *Converter) {
		if loc != nil {
			c.reference = loc
		}
	}
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{calendar: jalali.New(), reference: IranStandardTime}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Converter) Reference() *time.Location { return c.reference }

func (c *Converter) Calendar() *jalali.Converter { return c.calendar }

// Convert converts the date of v and carries its clock over unchanged.
//
// Naive values are converted as written. UTC and Zoned values are first
// moved to the reference zone, so the date is the one on the reference
// wall clock at that instant. UTC results render as UTC; Zoned results
// render with the offset reset to +00:00.
func (c *Converter) Convert(v Value) (DateTime, error) {
	t, shape := v.wall(c.reference)
	d, err := c.calendar.FromTime(t)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		Date:       d,
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
		shape:      shape,
		ref:        c.reference,
		cal:        c.calendar,
	}, nil
}

var std = NewConverter()

// Convert uses the default converter: 33 year leap rule, Iran Standard Time.
func Convert(v Value) (DateTime, error) { return std.Convert(v) }
