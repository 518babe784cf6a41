package hero

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound              = errors.New("hero variant not found")
	ErrDuplicateKey          = errors.New("a variant with this key already exists")
	ErrProtectedActiveRecord = errors.New("the active variant cannot be deleted; activate another variant first")
)

// ValidationError lists field-level problems that block a write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
