// Package abstractpath resolves abstract path templates into concrete file paths.
//
// An abstract path is a template such as
//
//	$TEST_REDUX/{version}/test-{id}.fits
//
// with an optional leading symbolic root (an environment variable reference)
// and zero or more {keyword} placeholders. Resolution substitutes each
// placeholder with a caller-supplied keyword value, then expands the symbolic
// root from the process environment. An unset symbolic root is kept literally
// in the output; turning the result into an absolute path is a separate,
// explicit step.
package abstractpath

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Placeholders returns the placeholder names in template, in order of appearance.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// EnvLabel returns the name of the symbolic root referenced by template,
// or "" when the template does not start with one.
func EnvLabel(template string) string {
	first := template
	if idx := strings.IndexByte(template, '/'); idx >= 0 {
		first = template[:idx]
	}
	if !strings.HasPrefix(first, "$") {
		return ""
	}
	return strings.Trim(first[1:], "{}")
}

// Substitute replaces every {keyword} placeholder in template with the
// corresponding value from keywords, leaving the symbolic root untouched.
// Supplying unused keywords is not an error; a placeholder without a supplied
// keyword fails with a keyword-classified error.
func Substitute(template string, keywords map[string]string) (string, error) {
	resolved := template
	for _, name := range Placeholders(template) {
		value, ok := keywords[name]
		if !ok {
			return "", errors.KeywordError("abstract path references an unsupplied keyword").
				WithContext("keyword", name).
				WithContext("template", template).
				Build()
		}
		resolved = strings.ReplaceAll(resolved, "{"+name+"}", value)
	}
	return resolved, nil
}

// Resolve substitutes keywords into template and expands the symbolic root
// from the process environment. A symbolic root that is unset in the
// environment is left in the output verbatim.
func Resolve(template string, keywords map[string]string) (string, error) {
	substituted, err := Substitute(template, keywords)
	if err != nil {
		return "", err
	}
	return ExpandEnv(substituted), nil
}

// Abs resolves path to an absolute path. This is the optional secondary step
// after Resolve; structural uses of the resolved path do not require it.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "could not resolve absolute path").
			WithContext("path", path).
			Build()
	}
	return abs, nil
}

// ExpandEnv expands $VAR and ${VAR} references, keeping unset variables
// literal instead of collapsing them to the empty string.
func ExpandEnv(path string) string {
	return os.Expand(path, func(name string) string {
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return "$" + name
	})
}
