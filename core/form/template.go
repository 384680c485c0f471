package form

import (
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

var sanitizer = bluemonday.StrictPolicy()

// sanitizeRounds bounds the decode/strip loop for nested entity encodings.
const sanitizeRounds = 8

// sanitize turns author supplied text into plain text.
// Entities are decoded before stripping, repeatedly, so encoded markup cannot survive.
// Text that is still changing after sanitizeRounds is kept in its escaped form.
func sanitize(s string) string {
	for i := 0; i < sanitizeRounds; i++ {
		next := html.UnescapeString(sanitizer.Sanitize(html.UnescapeString(s)))
		if next == s {
			return core.CleanString(s)
		}
		s = next
	}
	return core.CleanString(sanitizer.Sanitize(s))
}

// NewTemplate contains the information needed to create a Template, or to replace one wholesale.
type NewTemplate struct {
	Name        string       `json:"name" yaml:"name" validate:"required,notblank,max=200"`
	Description string       `json:"description" yaml:"description" validate:"max=2000"`
	Fields      []Field      `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
	ColorScheme *ColorScheme `json:"color_scheme" yaml:"colorScheme"`
	Published   bool         `json:"published" yaml:"published"`
	SharedWith  []string     `json:"shared_with" yaml:"sharedWith" validate:"omitempty,dive,required"`
}

// Validate normalizes the definition then validates it.
// Field problems come back together as validator.ValidationErrors.
func (nt *NewTemplate) Validate(validate *validator.Validate) error {
	nt.Name = sanitize(nt.Name)
	nt.Description = sanitize(nt.Description)
	if nt.ColorScheme == nil {
		nt.ColorScheme = new(ColorScheme)
	}
	nt.ColorScheme.setDefaults()

	for i := range nt.Fields {
		fld := &nt.Fields[i]
		fld.ID = core.CleanString(fld.ID)
		if fld.ID == "" {
			fld.ID = uuid.NewString()
		}
		fld.Label = sanitize(fld.Label)
		fld.Placeholder = sanitize(fld.Placeholder)
		fld.Type = FieldType(core.CleanString(string(fld.Type), true /* lower */))
		fld.AutoFillKey = core.CleanString(fld.AutoFillKey)
		if fld.Type != FieldSelect {
			fld.Options = nil
			continue
		}
		for j := range fld.Options {
			fld.Options[j].Label = sanitize(fld.Options[j].Label)
			fld.Options[j].Value = strings.TrimSpace(fld.Options[j].Value)
		}
	}

	shared := make([]string, 0, len(nt.SharedWith))
	for _, id := range nt.SharedWith {
		if id = core.CleanString(id); id != "" && !core.ContainsString(shared, id) {
			shared = append(shared, id)
		}
	}
	nt.SharedWith = shared

	return validate.Struct(nt)
}

// apply copies the definition onto t; field lists are replaced, never merged.
func (nt NewTemplate) apply(t *Template) {
	t.Name = nt.Name
	t.Description = nt.Description
	t.Fields = append([]Field(nil), nt.Fields...)
	if nt.ColorScheme != nil {
		t.ColorScheme = *nt.ColorScheme
	}
	t.ColorScheme.setDefaults()
	t.Published = nt.Published
	t.SharedWith = append([]string(nil), nt.SharedWith...)
}

// UpdateTemplate defines what may be provided to modify an existing Template.
// Absent attributes keep their current value; `fields`, when present, replaces the whole list.
type UpdateTemplate struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Fields      []Field      `json:"fields"`
	ColorScheme *ColorScheme `json:"color_scheme"`
	Published   *bool        `json:"published"`
	SharedWith  []string     `json:"shared_with"`
}

// Merge returns the full definition resulting from applying the update to `orig`.
func (ut UpdateTemplate) Merge(orig Template) NewTemplate {
	cs := orig.ColorScheme
	nt := NewTemplate{
		Name:        orig.Name,
		Description: orig.Description,
		Fields:      append([]Field(nil), orig.Fields...),
		ColorScheme: &cs,
		Published:   orig.Published,
		SharedWith:  append([]string(nil), orig.SharedWith...),
	}
	if ut.Name != nil {
		nt.Name = *ut.Name
	}
	if ut.Description != nil {
		nt.Description = *ut.Description
	}
	if ut.Fields != nil {
		nt.Fields = ut.Fields
	}
	if ut.ColorScheme != nil {
		nt.ColorScheme = ut.ColorScheme
	}
	if ut.Published != nil {
		nt.Published = *ut.Published
	}
	if ut.SharedWith != nil {
		nt.SharedWith = ut.SharedWith
	}
	return nt
}
