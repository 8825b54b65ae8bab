package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic33LeapYears(t *testing.T) {
	// Two full 33 year cycles.
	expected := map[int]bool{
		1370: true, 1375: true, 1379: true, 1383: true, 1387: true, 1391: true, 1395: true, 1399: true,
		1403: true, 1408: true, 1412: true, 1416: true, 1420: true, 1424: true, 1428: true, 1432: true, 1436: true,
	}
	for year := 1370; year <= 1436; year++ {
		assert.Equal(t, expected[year], Arithmetic33.IsLeap(year), "year %d", year)
		assert.Equal(t, expected[year], IsLeap(year), "year %d", year)
	}
}

func TestBirashk2820LeapYears(t *testing.T) {
	expected := map[int]bool{
		1370: true, 1375: true, 1379: true, 1383: true, 1387: true, 1391: true, 1395: true, 1399: true,
		1404: true, 1408: true, 1412: true, 1416: true, 1420: true, 1424: true, 1428: true, 1432: true,
	}
	for year := 1370; year <= 1436; year++ {
		assert.Equal(t, expected[year], Birashk2820.IsLeap(year), "year %d", year)
	}
}

func TestLeapRuleMatchesYearLength(t *testing.T) {
	for _, rule := range []LeapRule{Arithmetic33, Birashk2820} {
		for year := MinYear; year <= MaxYear; year++ {
			length := rule.NewYear(year+1) - rule.NewYear(year)
			if rule.IsLeap(year) {
				assert.Equal(t, 366, length, "%s year %d", rule.Name(), year)
			} else {
				assert.Equal(t, 365, length, "%s year %d", rule.Name(), year)
			}
		}
	}
}

func TestEightLeapYearsPerCycle(t *testing.T) {
	for start := 1; start+33 <= MaxYear; start += 33 {
		count := 0
		for year := start; year < start+33; year++ {
			if Arithmetic33.IsLeap(year) {
				count++
			}
		}
		assert.Equal(t, 8, count, "cycle starting %d", start)
	}
}

func TestNewYear(t *testing.T) {
	assert.Equal(t, fixedFromGregorian(2024, 3, 20), Arithmetic33.NewYear(1403))
	assert.Equal(t, fixedFromGregorian(622, 3, 21), Arithmetic33.NewYear(1))
	assert.Equal(t, fixedFromGregorian(622, 3, 22), Birashk2820.NewYear(1))
	assert.Equal(t, fixedFromGregorian(2025, 3, 21), Arithmetic33.NewYear(1404))
	assert.Equal(t, fixedFromGregorian(2025, 3, 20), Birashk2820.NewYear(1404))
}

func TestRulesDisagree(t *testing.T) {
	c := New(WithLeapRule(Birashk2820))
	assert.Equal(t, Birashk2820, c.Rule())

	_, _, _, err := c.JalaliToGregorian(1403, 12, 30)
	assert.ErrorIs(t, err, ErrInvalidDate)
	gy, gm, gd, err := c.JalaliToGregorian(1404, 12, 30)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2026, 3, 20}, [3]int{gy, gm, gd})

	d, err := c.FromGregorian(2025, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, Date{1404, 1, 1}, d)
}

func TestDateMethodsUseDefaultRule(t *testing.T) {
	birashk := New(WithLeapRule(Birashk2820))
	esfand30 := Date{1404, 12, 30}

	assert.False(t, esfand30.IsValid())
	assert.True(t, birashk.Valid(1404, 12, 30))

	_, _, _, err := esfand30.Gregorian()
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = esfand30.Weekday()
	assert.ErrorIs(t, err, ErrInvalidDate)

	w, err := birashk.Weekday(esfand30)
	require.NoError(t, err)
	assert.Equal(t, time.Friday, w)
}

func TestRuleByName(t *testing.T) {
	var testCases = []struct {
		description string
		name        string
		expected    LeapRule
		hasError    bool
	}{
		{description: "default", name: "", expected: Arithmetic33},
		{description: "33", name: "33", expected: Arithmetic33},
		{description: "33 full name", name: "arithmetic-33", expected: Arithmetic33},
		{description: "2820", name: "2820", expected: Birashk2820},
		{description: "2820 full name", name: "birashk-2820", expected: Birashk2820},
		{description: "unknown", name: "astronomical", hasError: true},
	}
	for _, testCase := range testCases {
		rule, err := RuleByName(testCase.name)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expected, rule, testCase.description)
	}
}

func TestGregorianHelpers(t *testing.T) {
	assert.Equal(t, 29, GregorianMonthDays(2024, 2))
	assert.Equal(t, 28, GregorianMonthDays(1900, 2))
	assert.Equal(t, 29, GregorianMonthDays(2000, 2))
	assert.Equal(t, 0, GregorianMonthDays(2000, 0))
	assert.Equal(t, 1, fixedFromGregorian(1, 1, 1))
	for _, fixed := range []int{1, 365, 366, 730119, 730120, 739200, 146097, 146097 * 2} {
		y, m, d := gregorianFromFixed(fixed)
		assert.Equal(t, fixed, fixedFromGregorian(y, m, d))
	}
	assert.Equal(t, -1, floorDiv(-1, 33))
	assert.Equal(t, 32, floorMod(-1, 33))
}
