package jalali

const (
	daysPer400Years = 146097
	daysPer100Years = 36524
	daysPer4Years   = 1461
)

var gregorianDaysBefore = [...]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func isGregorianLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || (year%400 == 0)
}

// GregorianMonthDays returns the length of a Gregorian month, or 0 for a bad month.
func GregorianMonthDays(year, month int) int {
	daysInMonth := []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && isGregorianLeapYear(year) {
		return 29
	}
	return daysInMonth[month-1]
}

func validGregorian(year, month, day int) bool {
	return day >= 1 && day <= GregorianMonthDays(year, month)
}

// fixedFromGregorian counts days so that 0001-01-01 is day 1.
func fixedFromGregorian(year, month, day int) int {
	y := year - 1
	days := 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400)
	days += gregorianDaysBefore[month-1] + day
	if month > 2 && isGregorianLeapYear(year) {
		days++
	}
	return days
}

// gregorianFromFixed peels 400, 100, 4 and 1 year cycles off the day count.
func gregorianFromFixed(fixed int) (year, month, day int) {
	days := fixed - 1

	n := floorDiv(days, daysPer400Years)
	year = 400 * n
	days -= daysPer400Years * n

	// The last century of a 400 year cycle is one day longer.
	n = days / daysPer100Years
	if n == 4 {
		n = 3
	}
	year += 100 * n
	days -= daysPer100Years * n

	n = days / daysPer4Years
	year += 4 * n
	days -= daysPer4Years * n

	n = days / 365
	if n == 4 {
		n = 3
	}
	year += n + 1
	days -= 365 * n

	month = 1
	for month < 12 && days >= GregorianMonthDays(year, month) {
		days -= GregorianMonthDays(year, month)
		month++
	}
	return year, month, days + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - b*floorDiv(a, b)
}
