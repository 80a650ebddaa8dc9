package config

import (
	"errors"
	"strings"
)

var errEmptyFlagValue = errors.New("value cannot be empty")

// MultiStringFlag is a flag.Value collecting every occurrence of a repeatable
// flag. Each occurrence may itself hold several items joined by separator.
//
// e.g.: -deny-path /forbidden -deny-path /.git,/private
type MultiStringFlag struct {
	values    []string
	separator string
}

func (f *MultiStringFlag) String() string {
	return strings.Join(f.values, f.separator)
}

// Set records one occurrence of the flag
func (f *MultiStringFlag) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return errEmptyFlagValue
	}

	f.values = append(f.values, value)
	return nil
}

// Split returns the items of every occurrence in order, trimmed of
// surrounding whitespace. Blank items are dropped.
func (f *MultiStringFlag) Split() []string {
	var items []string

	for _, value := range f.values {
		parts := []string{value}
		if f.separator != "" {
			parts = strings.Split(value, f.separator)
		}

		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	}

	return items
}
