package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Aria-Ghojavand/shamsy-calendar/internal/metrics"
	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
	"github.com/Aria-Ghojavand/shamsy-calendar/persian"
)

var (
	zonedLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05 -07:00", "2006-01-02 15:04:05 UTC"}
	wallLayouts  = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
)

type jalaliRequest struct {
	DateTime string `query:"datetime" validate:"required"`
	Shape    string `query:"shape" validate:"omitempty,oneof=naive utc zoned local"`
}

type gregorianRequest struct {
	Date string `query:"date" validate:"required"`
	Time string `query:"time"`
	Zone string `query:"zone"`
}

type jalaliResponse struct {
	Input    string `json:"input"`
	Shape    string `json:"shape"`
	Date     string `json:"date"`
	DateTime string `json:"datetime"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Weekday  string `json:"weekday"`
	Leap     bool   `json:"leap"`
	Holiday  string `json:"holiday,omitempty"`
}

type gregorianResponse struct {
	Input    string `json:"input"`
	Date     string `json:"date"`
	DateTime string `json:"datetime"`
	Instant  string `json:"instant"`
	Weekday  string `json:"weekday"`
}

type leapResponse struct {
	Year int    `json:"year"`
	Leap bool   `json:"leap"`
	Days int    `json:"days"`
	Rule string `json:"rule"`
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"time":      time.Now().UTC().Format(time.RFC3339),
		"leap_rule": s.converter.Calendar().Rule().Name(),
		"reference": time.Now().In(s.converter.Reference()).Format("-07:00"),
	})
}

func (s *Server) toJalali(c echo.Context) error {
	var req jalaliRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	value, err := s.hostValue(req.DateTime, req.Shape)
	if err != nil {
		s.recordConversion(metrics.DirectionToJalali, req.DateTime, "", err)
		return conversionError(err)
	}
	dt, err := s.converter.Convert(value)
	if err != nil {
		s.recordConversion(metrics.DirectionToJalali, req.DateTime, "", err)
		return conversionError(err)
	}
	s.recordConversion(metrics.DirectionToJalali, req.DateTime, dt.String(), nil)

	return c.JSON(http.StatusOK, s.jalaliResult(c, req.DateTime, dt))
}

func (s *Server) jalaliResult(c echo.Context, input string, dt persian.DateTime) jalaliResponse {
	resp := jalaliResponse{
		Input:    input,
		Shape:    dt.Shape().String(),
		Date:     dt.Date.String(),
		DateTime: dt.String(),
		Year:     dt.Year,
		Month:    dt.Month,
		Day:      dt.Day,
		Leap:     s.converter.Calendar().IsLeap(dt.Year),
	}
	if g, err := dt.Gregorian(); err == nil {
		resp.Weekday = g.Weekday().String()
	}
	if s.holidays != nil {
		h, err := s.holidays.Fetch(c.Request().Context(), dt.Year)
		if err != nil {
			s.logger.WithError(err).Warnw("Holiday lookup failed", "year", dt.Year)
		} else if desc, ok := h.Lookup(dt.Date); ok {
			resp.Holiday = desc
		}
	}
	return resp
}

// hostValue reads a Gregorian timestamp. Without an explicit shape, an
// offset of Z or a trailing " UTC" means UTC, any other offset means zoned
// and no offset means a naive wall clock.
func (s *Server) hostValue(raw, shapeName string) (persian.Value, error) {
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		switch {
		case shapeName == "" && (strings.HasSuffix(raw, "Z") || strings.HasSuffix(raw, " UTC")):
			return persian.UTC{Time: t}, nil
		case shapeName == "":
			return persian.Zoned{Time: t}, nil
		}
		shape, err := persian.ParseShape(shapeName)
		if err != nil {
			return nil, malformed(err)
		}
		switch shape {
		case persian.ShapeUTC:
			return persian.UTC{Time: t.UTC()}, nil
		case persian.ShapeZoned:
			return persian.Zoned{Time: t}, nil
		}
		return persian.Naive{Time: t}, nil
	}

	for _, layout := range wallLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		shape, err := persian.ParseShape(shapeName)
		if err != nil {
			return nil, malformed(err)
		}
		switch shape {
		case persian.ShapeUTC:
			return persian.UTC{Time: t}, nil
		case persian.ShapeZoned:
			t, err = time.ParseInLocation(layout, raw, s.converter.Reference())
			if err != nil {
				return nil, malformed(err)
			}
			return persian.Zoned{Time: t}, nil
		}
		return persian.Naive{Time: t}, nil
	}

	return nil, malformed(fmt.Errorf("unrecognized timestamp %q", raw))
}

func (s *Server) toGregorian(c echo.Context) error {
	var req gregorianRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	clock := req.Time
	if clock == "" && req.Zone != "" {
		clock = "00:00:00"
	}
	input := strings.TrimSpace(strings.Join([]string{req.Date, clock, req.Zone}, " "))
	dt, err := s.converter.Parse(input)
	if err != nil {
		s.recordConversion(metrics.DirectionToGregorian, input, "", err)
		return conversionError(err)
	}
	t, err := dt.Gregorian()
	if err != nil {
		s.recordConversion(metrics.DirectionToGregorian, input, "", err)
		return conversionError(err)
	}
	if dt.Shape() == persian.ShapeUTC {
		t = t.UTC()
	}

	resp := gregorianResponse{
		Input:    input,
		Date:     t.Format("2006-01-02"),
		DateTime: t.Format("2006-01-02 15:04:05"),
		Instant:  t.Format(time.RFC3339),
		Weekday:  t.Weekday().String(),
	}
	s.recordConversion(metrics.DirectionToGregorian, input, resp.DateTime, nil)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) leapYear(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
			"error":   "malformed",
			"message": "year must be an integer",
		})
	}
	if year < jalali.MinYear || year > jalali.MaxYear {
		return conversionError(jalali.ErrOutOfRange)
	}

	cal := s.converter.Calendar()
	days := 365
	if cal.IsLeap(year) {
		days = 366
	}
	return c.JSON(http.StatusOK, leapResponse{
		Year: year,
		Leap: days == 366,
		Days: days,
		Rule: cal.Rule().Name(),
	})
}

type holidayEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (s *Server) listHolidays(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
			"error":   "malformed",
			"message": "year must be an integer",
		})
	}

	h, err := s.holidays.Fetch(c.Request().Context(), year)
	if err != nil {
		s.logger.WithError(err).Warnw("Holiday fetch failed", "year", year)
		return echo.NewHTTPError(http.StatusBadGateway, map[string]string{
			"error":   "holidays_unavailable",
			"message": err.Error(),
		}).SetInternal(err)
	}

	entries := make([]holidayEntry, 0, len(h))
	for date, desc := range h {
		entries = append(entries, holidayEntry{Date: date, Description: desc})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	return c.JSON(http.StatusOK, map[string]interface{}{
		"year":     year,
		"holidays": entries,
	})
}

func (s *Server) recordConversion(direction, input, output string, err error) {
	s.logger.LogConversion(direction, input, output, err)
	if s.metrics != nil {
		s.metrics.RecordConversion(direction, err)
	}
}

// conversionError maps library errors onto HTTP errors: dates the calendar
// rejects are 422, input that could not be read is 400.
func conversionError(err error) error {
	result := metrics.Result(err)
	code := http.StatusUnprocessableEntity
	switch result {
	case "malformed":
		code = http.StatusBadRequest
	case "ok", "error":
		code = http.StatusInternalServerError
	}
	return echo.NewHTTPError(code, map[string]string{
		"error":   result,
		"message": err.Error(),
	}).SetInternal(err)
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", persian.ErrSyntax, err)
}
