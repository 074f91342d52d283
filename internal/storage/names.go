package storage

import (
	"fmt"
	"path"
	"strings"
)

const maxNameAttempts = 100

// ValidateName rejects names that would move a document out of its folder.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Disambiguate returns name for attempt 1 and name-<attempt> before the extension otherwise.
func Disambiguate(name string, attempt int) string {
	if attempt <= 1 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), attempt, ext)
}
