package service

import "strings"

// ValidateName trims the submitted name and reports whether anything is
// left. Pure function, no I/O.
func ValidateName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	return name, name != ""
}
