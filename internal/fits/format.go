package fits

import (
	"fmt"
	"strings"
)

// typeNames maps FITS table format codes to display type labels. Order
// matters: the first code found in the format string wins.
var typeNames = []struct {
	code rune
	name string
}{
	{'A', "char"},
	{'I', "int16"},
	{'J', "int32"},
	{'K', "int64"},
	{'E', "float32"},
	{'D', "float64"},
	{'B', "bool"},
	{'L', "bool"},
}

// formatType maps a TFORMn value like "10A" or "J" to a display label like
// "char[10]" or "int32". Unknown formats are passed through lowercased.
func formatType(tform string) string {
	t := strings.TrimSpace(tform)
	for _, m := range typeNames {
		if !strings.ContainsRune(t, m.code) {
			continue
		}
		if isAlpha(t) {
			return m.name
		}
		repeat := strings.TrimSuffix(t, string(m.code))
		if isDigits(repeat) {
			return fmt.Sprintf("%s[%s]", m.name, repeat)
		}
		return m.name
	}
	return strings.ToLower(t)
}

// FormatBytes converts a byte count to a human-readable size string.
func FormatBytes(value int64) string {
	v := float64(value)
	for _, unit := range []string{"bytes", "KB", "MB", "GB"} {
		if v < 1024 {
			return fmt.Sprintf("%d %s", int64(v), unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%3.1f TB", v)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || (r > 'Z' && r < 'a') || r > 'z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
