package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

var (
	frame  = rgb{0, 255, 255}
	banner = rgb{186, 85, 211}
	label  = rgb{0, 200, 120}
)

var shamsiMonths = []string{
	"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
}

// Conversion is one day expressed in both calendars.
type Conversion struct {
	Jalali    jalali.Date
	Gregorian time.Time
	// FromGregorian is true when the Gregorian day was the input.
	FromGregorian bool
}

func (c Conversion) shamsi() string {
	d := c.Jalali
	return fmt.Sprintf("%04d/%02d/%02d - %d %s %d", d.Year, d.Month, d.Day, d.Day, shamsiMonths[d.Month-1], d.Year)
}

func (c Conversion) gregorian() string {
	g := c.Gregorian
	return fmt.Sprintf("%04d/%02d/%02d - %s %d, %d", g.Year(), int(g.Month()), g.Day(), g.Month(), g.Day(), g.Year())
}

// Conversion prints a converted day with its weekday and holiday.
func (r *Renderer) Conversion(c Conversion) {
	fmt.Fprintln(r.w, r.paint(frame, strings.Repeat("=", 60)))

	field := func(name, value string, col rgb) {
		fmt.Fprintf(r.w, "%s: %s\n", r.paint(label, name), r.paint(col, value))
	}
	if c.FromGregorian {
		fmt.Fprintln(r.w, r.paint(banner, "Converting Gregorian to Shamsi"))
		fmt.Fprintln(r.w, r.paint(frame, strings.Repeat("-", 60)))
		field("Input (Gregorian)", c.gregorian(), workday)
		field("Output (Shamsi)", c.shamsi(), today)
	} else {
		fmt.Fprintln(r.w, r.paint(banner, "Converting Shamsi to Gregorian"))
		fmt.Fprintln(r.w, r.paint(frame, strings.Repeat("-", 60)))
		field("Input (Shamsi)", c.shamsi(), today)
		field("Output (Gregorian)", c.gregorian(), workday)
	}
	field("Day of Week", c.Gregorian.Weekday().String(), frame)
	if desc, ok := r.holidays.Lookup(c.Jalali); ok {
		field("Holiday", desc, offday)
	}

	fmt.Fprintln(r.w, r.paint(frame, strings.Repeat("=", 60)))
}
