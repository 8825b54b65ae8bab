package persian

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

func TestToPersian(t *testing.T) {
	plus0330 := time.FixedZone("", 3*3600+1800)
	tokyo := time.FixedZone("JST", 9*3600)

	var testCases = []struct {
		description string
		value       Value
		expected    string
		shape       Shape
	}{
		{
			description: "utc instant read on the tehran wall clock",
			value:       UTC{time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC)},
			expected:    "1403-08-20 02:08:28 UTC",
			shape:       ShapeUTC,
		},
		{
			description: "zoned value already at +03:30",
			value:       Zoned{time.Date(2024, 11, 10, 2, 17, 54, 0, plus0330)},
			expected:    "1403-08-20 02:17:54 +00:00",
			shape:       ShapeZoned,
		},
		{
			description: "zoned value from another offset",
			value:       Zoned{time.Date(2024, 11, 10, 7, 47, 54, 0, tokyo)},
			expected:    "1403-08-20 02:17:54 +00:00",
			shape:       ShapeZoned,
		},
		{
			description: "naive value keeps its literal date",
			value:       Naive{time.Date(2024, 11, 9, 23, 7, 0, 0, time.UTC)},
			expected:    "1403-08-19 23:07:00",
			shape:       ShapeNaive,
		},
		{
			description: "naive value ignores its location",
			value:       Naive{time.Date(2024, 11, 9, 23, 7, 0, 0, tokyo)},
			expected:    "1403-08-19 23:07:00",
			shape:       ShapeNaive,
		},
		{
			description: "utc evening is already nowruz in tehran",
			value:       UTC{time.Date(2024, 3, 19, 21, 0, 0, 0, time.UTC)},
			expected:    "1403-01-01 00:30:00 UTC",
			shape:       ShapeUTC,
		},
	}

	for _, testCase := range testCases {
		actual, err := testCase.value.ToPersian()
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expected, actual.String(), testCase.description)
		assert.Equal(t, testCase.shape, actual.Shape(), testCase.description)
		assert.Equal(t, 0, actual.Offset(), testCase.description)
	}
}

func TestTimeOfDayPassthrough(t *testing.T) {
	start := time.Date(2024, 11, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*60; i += 7 {
		wall := start.Add(time.Duration(i)*time.Minute + 13*time.Second + 500*time.Millisecond)
		dt, err := Naive{wall}.ToPersian()
		require.NoError(t, err)
		h, m, s := dt.Clock()
		assert.Equal(t, [3]int{wall.Hour(), wall.Minute(), wall.Second()}, [3]int{h, m, s})
		assert.Equal(t, wall.Nanosecond(), dt.Nanosecond)
		assert.Equal(t, jalali.Date{Year: 1403, Month: 8, Day: 19}, dt.Date)

		zoned := wall.In(IranStandardTime)
		zdt, err := Zoned{zoned}.ToPersian()
		require.NoError(t, err)
		h, m, s = zdt.Clock()
		assert.Equal(t, [3]int{zoned.Hour(), zoned.Minute(), zoned.Second()}, [3]int{h, m, s})
	}
}

func TestOutOfRangePropagates(t *testing.T) {
	for _, value := range []Value{
		Naive{time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)},
		UTC{time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)},
		Zoned{time.Date(9999, 1, 1, 0, 0, 0, 0, IranStandardTime)},
	} {
		_, err := value.ToPersian()
		assert.ErrorIs(t, err, jalali.ErrOutOfRange)
	}
}

func TestFromTime(t *testing.T) {
	assert.IsType(t, UTC{}, FromTime(time.Now().UTC()))
	assert.IsType(t, Zoned{}, FromTime(time.Now().In(IranStandardTime)))
}

func TestConverterOptions(t *testing.T) {
	utc := UTC{time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC)}

	c := NewConverter(WithReference(time.UTC))
	assert.Equal(t, time.UTC, c.Reference())
	dt, err := c.Convert(utc)
	require.NoError(t, err)
	assert.Equal(t, "1403-08-19 22:38:28 UTC", dt.String())

	birashk := NewConverter(WithCalendar(jalali.New(jalali.WithLeapRule(jalali.Birashk2820))))
	assert.Equal(t, jalali.Birashk2820, birashk.Calendar().Rule())
	dt, err = birashk.Convert(Naive{time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "1404-01-01 12:00:00", dt.String())
	dt, err = Convert(Naive{time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "1403-12-30 12:00:00", dt.String())

	def := NewConverter(WithReference(nil), WithCalendar(nil))
	assert.Equal(t, IranStandardTime, def.Reference())
	assert.NotNil(t, def.Calendar())
}

func TestFormat(t *testing.T) {
	dt, err := Zoned{time.Date(2024, 11, 10, 2, 17, 54, 0, IranStandardTime)}.ToPersian()
	require.NoError(t, err)

	var testCases = []struct {
		description string
		layout      string
		expected    string
	}{
		{description: "date", layout: "YYYY/MM/DD", expected: "1403/08/20"},
		{description: "date time", layout: "YYYY-MM-DD hh:mm:ss", expected: "1403-08-20 02:17:54"},
		{description: "clock with offset", layout: "hh:mm +hh:mm", expected: "02:17 +00:00"},
		{description: "literal text", layout: "Y", expected: "Y"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, dt.Format(testCase.layout), testCase.description)
	}
}

func TestGregorian(t *testing.T) {
	instant := time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC)
	for _, value := range []Value{UTC{instant}, Zoned{instant.In(time.FixedZone("", -5*3600))}} {
		dt, err := value.ToPersian()
		require.NoError(t, err)
		back, err := dt.Gregorian()
		require.NoError(t, err)
		assert.True(t, back.Equal(instant), "%v != %v", back, instant)
	}

	dt, err := Naive{time.Date(2024, 11, 9, 23, 7, 0, 0, time.UTC)}.ToPersian()
	require.NoError(t, err)
	back, err := dt.Gregorian()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 9, 23, 7, 0, 0, time.UTC), back)
}

func TestGregorianParsedOffset(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expected    time.Time
	}{
		{
			description: "negative offset",
			input:       "1403-08-20 02:17:54 -04:00",
			expected:    time.Date(2024, 11, 10, 2, 17, 54, 0, time.FixedZone("", -4*3600)),
		},
		{
			description: "iran offset",
			input:       "1403-08-20 02:17:54 +03:30",
			expected:    time.Date(2024, 11, 9, 22, 47, 54, 0, time.UTC),
		},
		{
			description: "explicit zero offset",
			input:       "1403-08-20 02:17:54 +00:00",
			expected:    time.Date(2024, 11, 10, 2, 17, 54, 0, time.UTC),
		},
		{
			description: "utc label reads the reference wall clock",
			input:       "1403-08-20 02:08:28 UTC",
			expected:    time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC),
		},
	}

	for _, testCase := range testCases {
		dt, err := Parse(testCase.input)
		require.NoError(t, err, testCase.description)
		actual, err := dt.Gregorian()
		require.NoError(t, err, testCase.description)
		assert.True(t, actual.Equal(testCase.expected), "%v: %v != %v", testCase.description, actual, testCase.expected)
		if dt.Shape() == ShapeZoned {
			_, offset := actual.Zone()
			assert.Equal(t, dt.Offset(), offset, testCase.description)
		}
	}
}

func TestParse(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expected    string
		shape       Shape
		offset      int
		err         error
	}{
		{description: "date only", input: "1403-08-20", expected: "1403-08-20 00:00:00"},
		{description: "slashes", input: "1403/8/20", expected: "1403-08-20 00:00:00"},
		{description: "dots and short clock", input: "1403.08.20 14:30", expected: "1403-08-20 14:30:00"},
		{description: "naive", input: "1403-08-19 23:07:00", expected: "1403-08-19 23:07:00"},
		{description: "utc", input: "1403-08-20 02:08:28 UTC", expected: "1403-08-20 02:08:28 UTC", shape: ShapeUTC},
		{description: "offset", input: "1403-08-20 02:17:54 +03:30", expected: "1403-08-20 02:17:54 +03:30", shape: ShapeZoned, offset: 12600},
		{description: "negative offset", input: "1403-08-20 02:17:54 -04:00", expected: "1403-08-20 02:17:54 -04:00", shape: ShapeZoned, offset: -14400},
		{description: "leap day", input: "1403-12-30", expected: "1403-12-30 00:00:00"},
		{description: "esfand 30 in common year", input: "1402-12-30", err: jalali.ErrInvalidDate},
		{description: "mehr 31", input: "1403-07-31", err: jalali.ErrInvalidDate},
		{description: "year zero", input: "0000-01-01", err: jalali.ErrOutOfRange},
		{description: "garbage", input: "yesterday", err: ErrSyntax},
		{description: "empty", input: "  ", err: ErrSyntax},
		{description: "bad hour", input: "1403-08-20 24:00:00", err: ErrSyntax},
		{description: "bad zone", input: "1403-08-20 10:00:00 IRST", err: ErrSyntax},
		{description: "too many fields", input: "1403-08-20 10:00:00 UTC extra", err: ErrSyntax},
		{description: "two part date", input: "1403-08", err: ErrSyntax},
	}

	for _, testCase := range testCases {
		actual, err := Parse(testCase.input)
		if testCase.err != nil {
			assert.ErrorIs(t, err, testCase.err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expected, actual.String(), testCase.description)
		assert.Equal(t, testCase.shape, actual.Shape(), testCase.description)
		assert.Equal(t, testCase.offset, actual.Offset(), testCase.description)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"1403/09/15", "1403-09-15", "1403.09.15"} {
		y, m, d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, [3]int{1403, 9, 15}, [3]int{y, m, d})
	}

	for _, s := range []string{"1403/09", "1403/ab/15", "1403/-9/15", ""} {
		_, _, _, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrSyntax, s)
	}
}

func TestParseRoundTrip(t *testing.T) {
	instant := time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC)
	for _, value := range []Value{UTC{instant}, Zoned{instant}, Naive{instant}} {
		dt, err := value.ToPersian()
		require.NoError(t, err)
		parsed, err := Parse(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt.String(), parsed.String())
		assert.Equal(t, dt.Date, parsed.Date)
		assert.Equal(t, dt.Shape(), parsed.Shape())
		if dt.Shape() != ShapeZoned {
			assert.Equal(t, dt, parsed)
		}
	}
}

func TestShape(t *testing.T) {
	for _, shape := range []Shape{ShapeNaive, ShapeUTC, ShapeZoned} {
		parsed, err := ParseShape(shape.String())
		require.NoError(t, err)
		assert.Equal(t, shape, parsed)
	}
	local, err := ParseShape("Local")
	require.NoError(t, err)
	assert.Equal(t, ShapeZoned, local)
	_, err = ParseShape("tai")
	assert.Error(t, err)
	assert.Equal(t, "Shape(7)", Shape(7).String())
}

func TestConcurrentConvert(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day := time.Date(2024, 11, 9, 22, 38, 28, 0, time.UTC).AddDate(0, 0, i*40)
			dt, err := UTC{day}.ToPersian()
			assert.NoError(t, err)
			back, err := dt.Gregorian()
			assert.NoError(t, err)
			assert.True(t, back.Equal(day))
		}(i)
	}
	wg.Wait()
}
