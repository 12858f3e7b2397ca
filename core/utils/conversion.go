package utils

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// ToString converts a decoded JSON or YAML value to its string form.
// Numbers are printed without exponent, so spreadsheet phone numbers such
// as 5.5512345e+09 become "5551234500". Values cast cannot convert (nested
// objects, arrays) fall back to their %v form.
func ToString(val any) string {
	if val == nil {
		return ""
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return s
}

// TrimmedString converts val with ToString and trims surrounding whitespace.
func TrimmedString(val any) string {
	return strings.TrimSpace(ToString(val))
}

// IsBlank reports whether val is nil or renders to whitespace only.
func IsBlank(val any) bool {
	return TrimmedString(val) == ""
}
