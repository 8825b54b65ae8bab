package jalali

import "fmt"

// LeapRule decides which Jalali years have 366 days and anchors each year's
// Nowruz on the fixed day count (0001-01-01 Gregorian is day 1).
type LeapRule interface {
	Name() string
	IsLeap(year int) bool
	NewYear(year int) int
}

var (
	// Arithmetic33 places 8 leap years in every 33 year cycle. It is the
	// rule used by the widely deployed jdf arithmetic and is the default.
	Arithmetic33 LeapRule = rule33{}
	// Birashk2820 is the 2820 year arithmetic cycle.
	Birashk2820 LeapRule = rule2820{}
)

// RuleByName resolves "33" or "2820".
func RuleByName(name string) (LeapRule, error) {
	switch name {
	case "", "33", Arithmetic33.Name():
		return Arithmetic33, nil
	case "2820", Birashk2820.Name():
		return Birashk2820, nil
	}
	return nil, fmt.Errorf("unknown leap rule %q", name)
}

type rule33 struct{}

// Nowruz 1403 fell on 2024-03-20.
var nowruz1403 = fixedFromGregorian(2024, 3, 20)

func (rule33) Name() string { return "arithmetic-33" }

func (rule33) IsLeap(year int) bool {
	r := floorMod(year+1595, 33)
	return r%4 == 0 && r != 32
}

func (rule33) NewYear(year int) int {
	return nowruz1403 + 365*(year-1403) + leapDays33(year+1595) - leapDays33(1403+1595)
}

// leapDays33 counts leap years before the shifted year y.
func leapDays33(y int) int {
	return floorDiv(y, 33)*8 + (floorMod(y, 33)+3)/4
}

type rule2820 struct{}

// 1 Farvardin 1 under the 2820 year cycle (Julian 622-03-19).
const birashkEpoch = 226896

func (rule2820) Name() string { return "birashk-2820" }

func (rule2820) IsLeap(year int) bool {
	_, cycleYear := birashkCycle(year)
	return floorMod((cycleYear+38)*31, 128) < 31
}

func (rule2820) NewYear(year int) int {
	y, cycleYear := birashkCycle(year)
	return birashkEpoch + 1029983*floorDiv(y, 2820) + 365*(cycleYear-1) + floorDiv(31*cycleYear-5, 128)
}

func birashkCycle(year int) (y, cycleYear int) {
	if year > 0 {
		y = year - 474
	} else {
		y = year - 473
	}
	return y, floorMod(y, 2820) + 474
}
