package parser

import (
	"fmt"
	"strings"
)

// ValidationError reports a document that is not a usable OpenAPI specification
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("invalid OpenAPI document: missing required keys: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid OpenAPI document: %s", e.Reason)
}
