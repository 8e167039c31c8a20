// File: conf/parsers.go
package conf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Built-in value parsers for common option types. A parser receives one raw
// string occurrence and returns the typed value or the reason it is invalid;
// the reason ends up verbatim in the resolution error report.

// ParseString passes the raw string through unchanged. It is the default
// parser for every option.
func ParseString(raw string) (any, error) {
	return raw, nil
}

// ParseInt parses a decimal int.
func ParseInt(raw string) (any, error) {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("not an integer")
	}
	return i, nil
}

// ParseInt64 parses an int64, accepting 0x/0o/0b prefixes.
func ParseInt64(raw string) (any, error) {
	i, err := strconv.ParseInt(raw, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("not a 64-bit integer")
	}
	return i, nil
}

// ParseUint parses a non-negative decimal integer.
func ParseUint(raw string) (any, error) {
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not a non-negative integer")
	}
	return u, nil
}

// ParseFloat64 parses a float64.
func ParseFloat64(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	return f, nil
}

// ParseBool parses a boolean in strconv.ParseBool syntax.
func ParseBool(raw string) (any, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("not a boolean")
	}
	return b, nil
}

// ParseDuration parses a time.Duration in Go syntax, e.g. "30s" or "1h15m".
func ParseDuration(raw string) (any, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("not a duration (expected forms like 30s, 1h15m)")
	}
	return d, nil
}

// ParseURL parses an absolute URL.
func ParseURL(raw string) (any, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("not a valid URL")
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("URL is missing a scheme")
	}
	return u, nil
}

// ParseEnum returns a parser accepting only the given values.
func ParseEnum(allowed ...string) ValueParser {
	return func(raw string) (any, error) {
		for _, a := range allowed {
			if raw == a {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
	}
}
