// Package calendar draws Jalali and Gregorian month grids for a terminal.
package calendar

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/Aria-Ghojavand/shamsy-calendar/internal/holidays"
	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

type rgb struct{ r, g, b int }

var (
	offday  = rgb{255, 0, 0}
	title   = rgb{255, 255, 255}
	header  = rgb{188, 188, 188}
	workday = rgb{135, 206, 235}
	today   = rgb{255, 255, 0}
)

var (
	shamsiWeekDays    = []string{"Sh", "Ye", "Do", "Se", "Ch", "Pa", "Jo"}
	gregorianWeekDays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
)

const (
	cellWidth  = 4
	monthWidth = 7 * cellWidth
	columnGap  = "    "
)

var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Renderer writes calendars to w.
type Renderer struct {
	w        io.Writer
	color    bool
	holidays holidays.Holidays
	calendar *jalali.Converter
}

type Option func(*Renderer)

func WithColor(enabled bool) Option {
	return func(r *Renderer) { r.color = enabled }
}

func WithHolidays(h holidays.Holidays) Option {
	return func(r *Renderer) { r.holidays = h }
}

func WithCalendar(c *jalali.Converter) Option {
	return func(r *Renderer) {
		if c != nil {
			r.calendar = c
		}
	}
}

func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, color: true, holidays: holidays.Holidays{}, calendar: jalali.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) paint(c rgb, s string) string {
	if !r.color {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", c.r, c.g, c.b, s)
}

func (r *Renderer) titleLine(text string) string {
	totalPad := monthWidth - len(text)
	leftPad := totalPad / 2
	rightPad := totalPad - leftPad
	return r.paint(title, strings.Repeat("=", leftPad)+text+strings.Repeat("=", rightPad))
}

// day is one cell of a month grid.
type day struct {
	number  int
	weekday time.Weekday
	holiday bool
}

func (r *Renderer) grid(w io.Writer, heading string, weekDays []string, first int, days []day, highlight int, weekend func(time.Weekday) bool) {
	fmt.Fprintln(w, r.titleLine(heading))
	for _, wd := range weekDays {
		fmt.Fprint(w, r.paint(header, fmt.Sprintf("%4s", wd)))
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, strings.Repeat(" ", cellWidth*first))
	pos := first
	for _, d := range days {
		cell := fmt.Sprintf("%4s", fmt.Sprintf("%2d", d.number))
		switch {
		case d.number == highlight:
			cell = r.paint(today, cell)
		case d.holiday, weekend(d.weekday):
			cell = r.paint(offday, cell)
		default:
			cell = r.paint(workday, cell)
		}
		fmt.Fprint(w, cell)
		pos++
		if pos%7 == 0 {
			fmt.Fprintln(w)
			pos = 0
		}
	}
	if pos != 0 {
		fmt.Fprint(w, strings.Repeat(" ", cellWidth*(7-pos)))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// JalaliMonth draws month jm of year jy. Fridays and holidays are marked
// off, highlight (a day of the month, 0 for none) is marked as today.
func (r *Renderer) JalaliMonth(jy, jm, highlight int) error {
	return r.jalaliMonth(r.w, jy, jm, highlight)
}

func (r *Renderer) jalaliMonth(w io.Writer, jy, jm, highlight int) error {
	first, err := r.calendar.ToTime(jalali.Date{Year: jy, Month: jm, Day: 1}, 0, 0, 0, 0, time.UTC)
	if err != nil {
		return err
	}
	n := r.calendar.MonthDays(jy, jm)
	days := make([]day, n)
	for i := range days {
		d := jalali.Date{Year: jy, Month: jm, Day: i + 1}
		_, holiday := r.holidays.Lookup(d)
		days[i] = day{number: i + 1, weekday: first.AddDate(0, 0, i).Weekday(), holiday: holiday}
	}
	r.grid(w, fmt.Sprintf(" %04d/%02d ", jy, jm), shamsiWeekDays, jalali.WeekdayIndex(first.Weekday()), days, highlight,
		func(wd time.Weekday) bool { return wd == time.Friday })
	return nil
}

// GregorianMonth draws a Gregorian month. Weekends and days that are
// holidays in the Jalali calendar are marked off.
func (r *Renderer) GregorianMonth(gy, gm, highlight int) error {
	return r.gregorianMonth(r.w, gy, gm, highlight)
}

func (r *Renderer) gregorianMonth(w io.Writer, gy, gm, highlight int) error {
	n := jalali.GregorianMonthDays(gy, gm)
	if n == 0 {
		return fmt.Errorf("invalid month %d", gm)
	}
	first := time.Date(gy, time.Month(gm), 1, 0, 0, 0, 0, time.UTC)
	days := make([]day, n)
	for i := range days {
		d, err := r.calendar.FromGregorian(gy, gm, i+1)
		if err != nil {
			return err
		}
		_, holiday := r.holidays.Lookup(d)
		days[i] = day{number: i + 1, weekday: first.AddDate(0, 0, i).Weekday(), holiday: holiday}
	}
	r.grid(w, fmt.Sprintf(" %04d-%02d ", gy, gm), gregorianWeekDays, int(first.Weekday()), days, highlight,
		func(wd time.Weekday) bool { return wd == time.Saturday || wd == time.Sunday })
	return nil
}

// JalaliYear draws the twelve months of jy in three rows of four.
func (r *Renderer) JalaliYear(jy int) error {
	return r.year(func(w io.Writer, m int) error { return r.jalaliMonth(w, jy, m, 0) })
}

// GregorianYear draws the twelve months of gy in three rows of four.
func (r *Renderer) GregorianYear(gy int) error {
	return r.year(func(w io.Writer, m int) error { return r.gregorianMonth(w, gy, m, 0) })
}

func (r *Renderer) year(month func(w io.Writer, m int) error) error {
	for row := 0; row < 3; row++ {
		var monthLines [4][]string
		maxLines := 0
		for col := 0; col < 4; col++ {
			var buf bytes.Buffer
			if err := month(&buf, row*4+col+1); err != nil {
				return err
			}
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			for i, line := range lines {
				if visible := len(ansiCodes.ReplaceAllString(line, "")); visible < monthWidth {
					lines[i] = line + strings.Repeat(" ", monthWidth-visible)
				}
			}
			monthLines[col] = lines
			if len(lines) > maxLines {
				maxLines = len(lines)
			}
		}
		for col := range monthLines {
			for len(monthLines[col]) < maxLines {
				monthLines[col] = append(monthLines[col], strings.Repeat(" ", monthWidth))
			}
		}
		for i := 0; i < maxLines; i++ {
			for col := range monthLines {
				fmt.Fprint(r.w, monthLines[col][i], columnGap)
			}
			fmt.Fprintln(r.w)
		}
		fmt.Fprintln(r.w)
	}
	return nil
}

// JalaliHolidays lists the holidays of a Jalali month.
func (r *Renderer) JalaliHolidays(jy, jm int) {
	fmt.Fprintln(r.w, "Holidays in this month:")
	found := false
	for d := 1; d <= r.calendar.MonthDays(jy, jm); d++ {
		if desc, ok := r.holidays.Lookup(jalali.Date{Year: jy, Month: jm, Day: d}); ok {
			fmt.Fprintf(r.w, "- %04d/%02d/%02d: %s\n", jy, jm, d, desc)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(r.w, "No holidays in this month.")
	}
}

// GregorianHolidays lists the Jalali holidays falling in a Gregorian month.
func (r *Renderer) GregorianHolidays(gy, gm int) {
	fmt.Fprintln(r.w, "Holidays in this month:")
	found := false
	for d := 1; d <= jalali.GregorianMonthDays(gy, gm); d++ {
		jd, err := r.calendar.FromGregorian(gy, gm, d)
		if err != nil {
			continue
		}
		if desc, ok := r.holidays.Lookup(jd); ok {
			fmt.Fprintf(r.w, "- %04d-%02d-%02d: %s (Shamsi: %d/%d/%d)\n", gy, gm, d, desc, jd.Year, jd.Month, jd.Day)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(r.w, "No holidays in this month.")
	}
}
