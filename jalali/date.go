package jalali

import (
	"fmt"
	"time"
)

// Date is a day of the Jalali calendar.
//
// IsValid, Gregorian and Weekday read d under the default Arithmetic33
// rule. Under another LeapRule use the matching Converter methods (Valid,
// JalaliToGregorian, Weekday), since the rules disagree on which years
// have an Esfand 30.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsValid checks d under the default leap rule.
func (d Date) IsValid() bool {
	return Valid(d.Year, d.Month, d.Day)
}

// YearDay returns the 1-based day of the year.
func (d Date) YearDay() int {
	return daysBeforeMonth(d.Month) + d.Day
}

// Gregorian returns the Gregorian day of d under the default leap rule.
func (d Date) Gregorian() (year, month, day int, err error) {
	return JalaliToGregorian(d.Year, d.Month, d.Day)
}

// Weekday returns the day of the week d falls on under the default leap rule.
func (d Date) Weekday() (time.Weekday, error) {
	return std.Weekday(d)
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// The Iranian week starts on Saturday.
var goToShamsiWeekday = []int{1, 2, 3, 4, 5, 6, 0}

// WeekdayIndex maps a Go weekday to its column in a Saturday-first week.
func WeekdayIndex(w time.Weekday) int {
	return goToShamsiWeekday[int(w)]
}
