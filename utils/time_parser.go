package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var errDurationTooLong = errors.New("duration is too long")

var unitDurations = map[string]time.Duration{
	"w": 7 * 24 * time.Hour,
	"d": 24 * time.Hour,
}

// ParseDuration extends time.ParseDuration to support weeks (w) and days (d),
// including compound values such as "1w2d" or "1d12h".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("empty duration")
	}

	var total time.Duration
	for _, unit := range []string{"w", "d"} {
		idx := strings.Index(s, unit)
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(s[:idx])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid %s value: %q", unit, s[:idx])
		}
		unitDur := unitDurations[unit]
		if int64(n) > (math.MaxInt64-int64(total))/int64(unitDur) {
			return 0, errDurationTooLong
		}
		total += time.Duration(n) * unitDur
		s = s[idx+1:]
	}
	if s == "" {
		return total, nil
	}

	rest, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if rest > 0 && total > math.MaxInt64-rest {
		return 0, errDurationTooLong
	}
	return total + rest, nil
}

// ParseExpiry turns a relative duration into an absolute expiry after now.
func ParseExpiry(now time.Time, s string) (time.Time, error) {
	d, err := ParseDuration(s)
	if err != nil {
		return time.Time{}, err
	}
	if d <= 0 {
		return time.Time{}, fmt.Errorf("duration must be positive, got %q", s)
	}
	expiry := now.Add(d)
	if expiry.Before(now) {
		return time.Time{}, errDurationTooLong
	}
	return expiry, nil
}
