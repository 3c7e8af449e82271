package utils

import (
	"path"
	"strings"
	"unicode"
)

// SanitizeFileName keeps only the last path element of name and replaces anything that is not a
// letter, digit, '.', '-', '_' or space with '_'. Leading dots are replaced too.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for i, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || (c == '.' && i > 0) || c == '-' || c == '_' || c == ' ' {
			b.WriteRune(c)
		} else {
			b.WriteString("_")
		}
	}
	return b.String()
}
