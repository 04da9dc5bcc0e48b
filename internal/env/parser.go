package env

import (
	"errors"
	"strconv"
	"strings"
)

// ParseString returns the input string as-is without validation.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseNonEmptyString validates that the input string is not empty.
func ParseNonEmptyString(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.New("empty string not allowed")
	}
	return ParseString(s)
}

// ParseInt parses a string as a base-10 int.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseBool parses a string as a boolean value.
func ParseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}

// ParseList splits a comma-separated value, trimming blanks. An empty list is an error.
func ParseList(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty list not allowed")
	}
	return out, nil
}
