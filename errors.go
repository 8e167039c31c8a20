// File: conf/errors.go
package conf

import (
	"fmt"
	"strings"
)

// Redacted is the placeholder substituted for the raw value of a secret
// option in error messages.
const Redacted = "[REDACTED]"

// ErrorKind classifies a single resolution defect.
type ErrorKind int

const (
	// MissingRequiredValue means a required parameter was found in none of
	// its sources (CLI switch, environment variable, document, default).
	MissingRequiredValue ErrorKind = iota
	// InvalidValue means a raw string was found but its value parser rejected it.
	InvalidValue
	// DuplicateOccurrence means a single-valued parameter occurred more than
	// once on the command line.
	DuplicateOccurrence
	// MissingSubcommand means a required subcommand was not selected.
	MissingSubcommand
	// ConflictingConstraint means an exactly-one / at-most-one / at-least-one
	// group rule was violated.
	ConflictingConstraint
	// ValidationPredicateFailed means a user-supplied group predicate rejected
	// the resolved value.
	ValidationPredicateFailed
)

// String returns the short name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredValue:
		return "missing required value"
	case InvalidValue:
		return "invalid value"
	case DuplicateOccurrence:
		return "duplicate occurrence"
	case MissingSubcommand:
		return "missing subcommand"
	case ConflictingConstraint:
		return "conflicting constraint"
	case ValidationPredicateFailed:
		return "validation failed"
	default:
		return "unknown error"
	}
}

// FieldError is one defect found while resolving a schema against its value
// sources. Path is the dotted field path reflecting nesting; Value carries
// the offending raw string, already redacted for secret options.
type FieldError struct {
	Path    string
	Kind    ErrorKind
	Value   string   // offending raw value (InvalidValue), redacted if secret
	Reason  string   // parser failure reason or predicate message
	Sources []string // sources checked (MissingRequiredValue), e.g. "--url", "DB_URL"
	Present []string // fields found present (ConflictingConstraint)
	Absent  []string // fields found absent (ConflictingConstraint)
	Rule    string   // constraint rule name (ConflictingConstraint)
	Names   []string // available subcommand names (MissingSubcommand)
}

// Error renders the defect as a single human-readable line.
func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}

	switch e.Kind {
	case MissingRequiredValue:
		b.WriteString("a required value was not provided")
		if len(e.Sources) > 0 {
			fmt.Fprintf(&b, " (checked %s)", strings.Join(e.Sources, ", "))
		}
	case InvalidValue:
		fmt.Fprintf(&b, "invalid value %q", e.Value)
		if e.Reason != "" {
			b.WriteString(": ")
			b.WriteString(e.Reason)
		}
	case DuplicateOccurrence:
		b.WriteString("argument provided more than once")
	case MissingSubcommand:
		b.WriteString("a subcommand is required")
		if len(e.Names) > 0 {
			fmt.Fprintf(&b, " (one of: %s)", strings.Join(e.Names, ", "))
		}
	case ConflictingConstraint:
		if len(e.Present) > 1 {
			fmt.Fprintf(&b, "too many arguments: %s requires fewer of [%s]",
				e.Rule, strings.Join(e.Present, ", "))
		} else {
			fmt.Fprintf(&b, "too few arguments: %s requires one of [%s]",
				e.Rule, strings.Join(e.Absent, ", "))
		}
		if len(e.Present) > 0 && len(e.Absent) > 0 {
			fmt.Fprintf(&b, " (present: %s; absent: %s)",
				strings.Join(e.Present, ", "), strings.Join(e.Absent, ", "))
		}
	case ValidationPredicateFailed:
		b.WriteString("validation failed")
		if e.Reason != "" {
			b.WriteString(": ")
			b.WriteString(e.Reason)
		}
	default:
		b.WriteString("unknown error")
	}

	return b.String()
}

// Errors is the ordered aggregate of every defect found during one
// resolution call. Order follows schema declaration order, so reports are
// reproducible regardless of source iteration order.
type Errors []*FieldError

// Error renders all defects, one per line.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	lines := make([]string, len(e))
	for i, fe := range e {
		lines[i] = fe.Error()
	}
	return strings.Join(lines, "\n")
}

// ErrOrNil returns the aggregate as an error, or nil when empty.
func (e Errors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// SchemaError reports a defect in the schema itself, detected when the
// schema is built and never part of a per-call error list.
type SchemaError struct {
	msg string
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{msg: fmt.Sprintf(format, args...)}
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.msg
}
