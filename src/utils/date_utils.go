package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultDateFormat = "02-01-2006"
	ISODateFormat     = "2006-01-02"
)

var ErrInvalidDateFilter = errors.New("invalid date filter")

// ParseDate parses a date string using the default format (DD-MM-YYYY).
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DefaultDateFormat, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format %q, use DD-MM-YYYY (e.g. 25-01-2026)", ErrInvalidDateFilter, dateStr)
	}
	return t, nil
}

// NormalizeDate reduces "2026.01.19", "2026/01/19" or "2026-01-19 10:00:00"
// to the ISO calendar date "2026-01-19".
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	s = strings.NewReplacer(".", "-", "/", "-").Replace(s)

	t, err := time.Parse(ISODateFormat, s)
	if err != nil {
		return "", fmt.Errorf("unrecognised date %q", s)
	}
	return t.Format(ISODateFormat), nil
}

// DateOf truncates t to its calendar date, in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive calendar-date range. A zero bound is open.
type DateRange struct {
	From        time.Time
	To          time.Time
	Description string
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether the calendar date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// DateFilterOptions are the user-facing filter inputs. From/To count as one
// filter kind; Last and ThisMonth are the other two.
type DateFilterOptions struct {
	From      string
	To        string
	Last      *int
	ThisMonth bool
}

// ParseDateFilter validates the options and builds the range relative to now.
// No options yields the zero range.
func ParseDateFilter(opts DateFilterOptions, now time.Time) (DateRange, error) {
	kinds := 0
	if opts.From != "" || opts.To != "" {
		kinds++
	}
	if opts.Last != nil {
		kinds++
	}
	if opts.ThisMonth {
		kinds++
	}
	if kinds > 1 {
		return DateRange{}, fmt.Errorf("%w: cannot combine from/to with last or this-month, use one filter type", ErrInvalidDateFilter)
	}

	today := DateOf(now)

	switch {
	case opts.From != "" || opts.To != "":
		var r DateRange
		var err error
		if opts.From != "" {
			if r.From, err = ParseDate(opts.From); err != nil {
				return DateRange{}, err
			}
		}
		if opts.To != "" {
			if r.To, err = ParseDate(opts.To); err != nil {
				return DateRange{}, err
			}
		}
		switch {
		case !r.From.IsZero() && !r.To.IsZero():
			if r.From.After(r.To) {
				return DateRange{}, fmt.Errorf("%w: start date must be before or equal to end date", ErrInvalidDateFilter)
			}
			r.Description = fmt.Sprintf("%s to %s", opts.From, opts.To)
		case !r.From.IsZero():
			r.Description = "from " + opts.From
		default:
			r.Description = "until " + opts.To
		}
		return r, nil

	case opts.Last != nil:
		if *opts.Last <= 0 {
			return DateRange{}, fmt.Errorf("%w: last value must be a positive number", ErrInvalidDateFilter)
		}
		return DateRange{
			From:        today.AddDate(0, 0, -(*opts.Last - 1)),
			To:          today,
			Description: fmt.Sprintf("last %d days", *opts.Last),
		}, nil

	case opts.ThisMonth:
		return DateRange{
			From:        time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
			To:          today,
			Description: "this month",
		}, nil
	}

	return DateRange{}, nil
}
