package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryKeyword represents an abstract-path placeholder with no supplied keyword value.
	CategoryKeyword ErrorCategory = "keyword"
	// CategoryConfig represents user-facing configuration errors.
	CategoryConfig ErrorCategory = "config"
	// CategoryNotFound represents a missing example data file.
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryStructure represents an example file that cannot be parsed as the expected container format.
	CategoryStructure ErrorCategory = "structure"
	// CategoryRecord represents a missing persisted record (render-only mode without prior generation).
	CategoryRecord ErrorCategory = "record"
	// CategoryRelease represents selection of a release id absent from the record.
	CategoryRelease ErrorCategory = "release"

	// CategoryRender represents template rendering errors.
	CategoryRender ErrorCategory = "render"
	// CategoryStore represents record or history persistence errors.
	CategoryStore ErrorCategory = "store"

	// CategoryRuntime represents runtime and infrastructure errors.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	merged := make(ErrorContext, len(c)+len(other))
	maps.Copy(merged, c)
	maps.Copy(merged, other)
	return merged
}
