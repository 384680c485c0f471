package form

import (
	"fmt"
	"strings"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

var (
	ErrNotFound           = core.NewNotFoundError("form not found")
	ErrSubmissionNotFound = core.NewNotFoundError("submission not found")
	ErrNotAuthor          = core.NewAuthorizationError("only the author of this form may do that")
	ErrNotRespondent      = core.NewAuthorizationError("only students may submit forms")
	ErrAlreadySubmitted   = core.NewValidationError(fmt.Errorf("you have already submitted this form"))
)

// Violation codes
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeEmail       = "invalid_email"
	CodeNumber      = "invalid_number"
	CodeDate        = "invalid_date"
	CodeTampered    = "autofill_mismatch"
	CodeFileRef     = "invalid_file_reference"
)

// Violation is one field level problem found in a submission.
type Violation struct {
	FieldID    string `json:"field_id"`
	FieldLabel string `json:"field_label"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// ValidationFailedError carries every violation found in a rejected submission.
type ValidationFailedError struct {
	Violations []Violation
}

func (err *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(err.Violations))
	for _, v := range err.Violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.FieldLabel, v.Message))
	}
	return "submission rejected: " + strings.Join(msgs, "; ")
}

func newViolation(fld Field, code, msg string) Violation {
	return Violation{FieldID: fld.ID, FieldLabel: fld.Label, Code: code, Message: msg}
}
