package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// Step is a position in the flow.
type Step int

const (
	StepBrandName Step = iota + 1
	StepOwnerInfo
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepBrandName:
		return "brand name"
	case StepOwnerInfo:
		return "owner info"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// StepInfo is the label shown for a step.
type StepInfo struct {
	Step        Step
	Title       string
	Description string
}

var steps = []StepInfo{
	{StepBrandName, "Brand name", "Basic information"},
	{StepOwnerInfo, "Owner information", "Personal details"},
	{StepReview, "Summary", "Confirm details"},
}

// Steps lists the steps in order.
func Steps() []StepInfo {
	out := make([]StepInfo, len(steps))
	copy(out, steps)
	return out
}

// Field names a draft field, using the backend's JSON names.
type Field string

const (
	FieldSignName Field = "sign_name"
	FieldName     Field = "name"
	FieldSurname  Field = "surname"
	FieldEmail    Field = "email"
	FieldAddress  Field = "address"
)

// ErrUnknownField is returned for a field name outside the draft.
var ErrUnknownField = errors.New("unknown field")

// ParseField maps a field name (as accepted on the command line) to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch f {
	case FieldSignName, FieldName, FieldSurname, FieldEmail, FieldAddress:
		return f, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownField, s)
}

// FieldsOf returns the fields collected at step s.
func FieldsOf(s Step) []Field {
	switch s {
	case StepBrandName:
		return []Field{FieldSignName}
	case StepOwnerInfo:
		return []Field{FieldName, FieldSurname, FieldEmail, FieldAddress}
	default:
		return nil
	}
}

// ErrIncomplete is matched by every *IncompleteError.
var ErrIncomplete = errors.New("required fields are empty")

// IncompleteError names the fields blocking a forward move.
type IncompleteError struct {
	Step    Step
	Missing []Field
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: %v: %s", e.Step, ErrIncomplete, strings.Join(names, ", "))
}

func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }
