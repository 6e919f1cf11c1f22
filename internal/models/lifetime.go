package models

import (
	"fmt"
	"strconv"
	"time"
)

// ParseLifetime parses an ISO-8601 duration (e.g. "PT1H", "P1D",
// "P1DT12H30M") into a time.Duration. Calendar units are fixed-width:
// a year is 365 days and a month is 30 days. The zero duration and
// negative components are rejected; a post lifetime must move its
// expiry into the future.
func ParseLifetime(s string) (time.Duration, error) {
	if len(s) < 3 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
	}

	var total time.Duration
	inTime := false
	i := 1
	for i < len(s) {
		if s[i] == 'T' {
			if inTime {
				return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
			}
			inTime = true
			i++
			continue
		}

		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i || j == len(s) {
			return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
		}
		n, err := strconv.Atoi(s[i:j])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
		}

		unit, err := lifetimeUnit(s[j], inTime)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
		}
		total += time.Duration(n) * unit
		i = j + 1
	}

	if total <= 0 {
		return 0, fmt.Errorf("lifetime must be positive: %q", s)
	}
	return total, nil
}

func lifetimeUnit(designator byte, inTime bool) (time.Duration, error) {
	if inTime {
		switch designator {
		case 'H':
			return time.Hour, nil
		case 'M':
			return time.Minute, nil
		case 'S':
			return time.Second, nil
		}
		return 0, fmt.Errorf("unknown time designator %q", designator)
	}
	switch designator {
	case 'Y':
		return 365 * 24 * time.Hour, nil
	case 'M':
		return 30 * 24 * time.Hour, nil
	case 'W':
		return 7 * 24 * time.Hour, nil
	case 'D':
		return 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown date designator %q", designator)
}
