package form

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
)

// SubmissionValidator is the server side gate in front of the Response store.
type SubmissionValidator struct {
	resolver *Resolver
	validate *validator.Validate
}

func NewSubmissionValidator(resolver *Resolver, validate *validator.Validate) *SubmissionValidator {
	return &SubmissionValidator{resolver: resolver, validate: validate}
}

// Validate runs, in order: the template state check (fatal), then the required, auto-fill tamper
// and file reference checks. Field checks never stop early: every violation is reported in a
// *ValidationFailedError. `answers` must already be narrowed with Value.ForField.
func (sv *SubmissionValidator) Validate(tmpl *Template, respondentID string, answers map[string]Value, prof *profile.Profile) error {
	if tmpl == nil || !tmpl.VisibleTo(respondentID) {
		return ErrNotFound
	}

	var violations []Violation

	for _, fld := range tmpl.Fields {
		if fld.Required && answers[fld.ID].IsBlank() {
			violations = append(violations, newViolation(fld, CodeRequired, "this field is required"))
		}
	}

	for _, fld := range tmpl.Fields {
		if fld.AutoFillKey == "" {
			continue
		}
		expected, ok := sv.resolver.Resolve(fld.AutoFillKey, prof)
		if !ok {
			continue // nothing to lock: the field was editable
		}
		if tamperForm(fld, answers[fld.ID]) != tamperForm(fld, expected) {
			violations = append(violations, newViolation(fld, CodeTampered,
				"value does not match your profile"))
		}
	}

	for _, fld := range tmpl.Fields {
		if fld.Type != FieldFile {
			continue
		}
		val := answers[fld.ID]
		if val.IsBlank() {
			continue
		}
		refs := []string{val.String()}
		if val.Kind() == KindList {
			refs = val.List()
		}
		for _, ref := range refs {
			if !sv.isFileReference(ref) {
				violations = append(violations, newViolation(fld, CodeFileRef,
					"must be an absolute URL or a path starting with /"))
				break
			}
		}
	}

	if len(violations) > 0 {
		return &ValidationFailedError{Violations: violations}
	}
	return nil
}

// tamperForm is the string form used by the tamper check; dates compare as YYYY-MM-DD.
func tamperForm(fld Field, val Value) string {
	s := val.String()
	if fld.Type == FieldDate || val.Kind() == KindDate {
		if d, ok := NormalizeDate(s); ok {
			return d
		}
	}
	return s
}

func (sv *SubmissionValidator) isFileReference(ref string) bool {
	if len(ref) > 0 && ref[0] == '/' {
		return true
	}
	return sv.validate.Var(ref, "url") == nil
}

// BuildResponse keeps one entry per submitted field, in template order, with the current labels.
// Answers to unknown field ids are dropped.
func BuildResponse(tmpl Template, respondentID string, answers map[string]Value, now time.Time) Response {
	resp := Response{
		TemplateID:   tmpl.ID,
		RespondentID: respondentID,
		SubmittedAt:  now.UTC(),
		Entries:      make([]Entry, 0, len(answers)),
	}
	for _, fld := range tmpl.Fields {
		val, ok := answers[fld.ID]
		if !ok {
			continue
		}
		resp.Entries = append(resp.Entries, Entry{FieldID: fld.ID, FieldLabel: fld.Label, Value: val})
	}
	return resp
}

// NarrowAnswers indexes answers by field id and narrows each value to its field's type.
// Later duplicates win; unknown field ids are dropped.
func NarrowAnswers(tmpl Template, answers []Answer) map[string]Value {
	narrowed := make(map[string]Value, len(answers))
	for _, ans := range answers {
		fld, ok := tmpl.Field(ans.FieldID)
		if !ok {
			continue
		}
		narrowed[fld.ID] = ans.Value.ForField(fld.Type)
	}
	return narrowed
}
