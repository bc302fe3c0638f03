package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/jacklee1792/predicord/pkg/errors"
)

// Accepted layouts for absolute expiry expressions, tried most to least
// specific.
var absoluteLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseExpiry turns an expiry expression into an absolute timestamp. An
// empty expression means good-until-cancelled. A leading "+" introduces a
// compound relative duration such as "+1y3mo2w9d3h45m3s" added to now;
// anything else is parsed as an absolute date or datetime. A bare date
// expires at the last second of that day rather than at midnight.
func ParseExpiry(expr string, now time.Time) (*time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	if strings.HasPrefix(expr, "+") {
		expiresAt, err := addRelative(now, expr[1:])
		if err != nil {
			return nil, err
		}
		return &expiresAt, nil
	}

	for _, layout := range absoluteLayouts {
		expiresAt, err := time.ParseInLocation(layout, expr, now.Location())
		if err != nil {
			continue
		}
		if expiresAt.Hour() == 0 && expiresAt.Minute() == 0 && expiresAt.Second() == 0 {
			expiresAt = time.Date(
				expiresAt.Year(), expiresAt.Month(), expiresAt.Day(),
				23, 59, 59, 0, expiresAt.Location(),
			)
		}
		return &expiresAt, nil
	}

	return nil, invalidDuration(expr)
}

// addRelative applies a compound duration spec to now. Units: y (years),
// mo (months), w (weeks), d (days), h (hours), m (minutes), s (seconds).
// Calendar units go through AddDate so month and year lengths are honored.
func addRelative(now time.Time, spec string) (time.Time, error) {
	if spec == "" {
		return time.Time{}, invalidDuration("+" + spec)
	}

	var years, months, days int
	var clock time.Duration

	i := 0
	for i < len(spec) {
		start := i
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		if start == i {
			return time.Time{}, invalidDuration("+" + spec)
		}
		n, err := strconv.Atoi(spec[start:i])
		if err != nil {
			return time.Time{}, invalidDuration("+" + spec)
		}

		unitStart := i
		for i < len(spec) && (spec[i] < '0' || spec[i] > '9') {
			i++
		}

		switch spec[unitStart:i] {
		case "y":
			years += n
		case "mo":
			months += n
		case "w":
			days += 7 * n
		case "d":
			days += n
		case "h":
			clock += time.Duration(n) * time.Hour
		case "m":
			clock += time.Duration(n) * time.Minute
		case "s":
			clock += time.Duration(n) * time.Second
		default:
			return time.Time{}, invalidDuration("+" + spec)
		}
	}

	return now.AddDate(years, months, days).Add(clock), nil
}

func invalidDuration(expr string) error {
	return errors.TracerFromError(errors.NewErrorDetailsWithObject(
		"duration must be a relative duration like +1y3mo2w9d3h45m3s or an absolute date like 2023-04-03",
		string(errors.InvalidDuration),
		"duration",
		expr,
	))
}
