package jalali

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for dates outside MinYear..MaxYear.
	ErrOutOfRange = errors.New("date out of supported range")
	// ErrInvalidDate is returned when year/month/day do not name a real calendar day.
	ErrInvalidDate = errors.New("invalid date")
)

// DateError records the conversion and input that failed.
type DateError struct {
	Op    string
	Year  int
	Month int
	Day   int
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("jalali: %s %04d-%02d-%02d: %v", e.Op, e.Year, e.Month, e.Day, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

func dateError(op string, y, m, d int, err error) error {
	return &DateError{Op: op, Year: y, Month: m, Day: d, Err: err}
}
