package utils

import "strings"

// RefURL builds a clickable reference for an external identifier field.
// Values that already carry a URL scheme are used verbatim; bare
// identifiers are appended to the configured base path. The same rule
// applies wherever such a field is displayed.
func RefURL(base, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	return base + v
}
