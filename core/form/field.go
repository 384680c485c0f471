package form

import "time"

type FieldType string

// Field types
const (
	FieldText   FieldType = "text"
	FieldEmail  FieldType = "email"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldFile   FieldType = "file"
	FieldSelect FieldType = "select"
)

var FieldTypes = []FieldType{FieldText, FieldEmail, FieldNumber, FieldDate, FieldFile, FieldSelect}

func (ft FieldType) IsValid() bool {
	for _, t := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// Default colors
const (
	DefaultPrimaryColor    = "#4f46e5"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#111827"
)

type (
	Option struct {
		Label string `json:"label" bson:"label" yaml:"label" validate:"required,notblank"`
		Value string `json:"value" bson:"value" yaml:"value"`
	}

	// Field is one typed input of a Template. It only exists inside its Template.
	Field struct {
		ID          string    `json:"id" bson:"id" yaml:"id"`
		Label       string    `json:"label" bson:"label" yaml:"label" validate:"required,notblank,max=255"`
		Type        FieldType `json:"field_type" bson:"field_type" yaml:"type" validate:"required,fieldtype"`
		Placeholder string    `json:"placeholder,omitempty" bson:"placeholder,omitempty" yaml:"placeholder" validate:"max=255"`
		Required    bool      `json:"required" bson:"required" yaml:"required"`
		Options     []Option  `json:"options,omitempty" bson:"options,omitempty" yaml:"options" validate:"dive"`
		AutoFillKey string    `json:"auto_fill_key,omitempty" bson:"auto_fill_key,omitempty" yaml:"autoFillKey" validate:"omitempty,autofillkey"`
	}

	ColorScheme struct {
		PrimaryColor    string `json:"primary_color" bson:"primary_color" yaml:"primaryColor" validate:"omitempty,hexcolor_"`
		BackgroundColor string `json:"background_color" bson:"background_color" yaml:"backgroundColor" validate:"omitempty,hexcolor_"`
		TextColor       string `json:"text_color" bson:"text_color" yaml:"textColor" validate:"omitempty,hexcolor_"`
	}

	Template struct {
		ID          string      `json:"id" bson:"_id" db:"id"`
		AuthorID    string      `json:"author_id" bson:"author_id" db:"author_id"`
		Name        string      `json:"name" bson:"name" db:"name"`
		Description string      `json:"description" bson:"description" db:"description"`
		Fields      []Field     `json:"fields" bson:"fields"`
		ColorScheme ColorScheme `json:"color_scheme" bson:"color_scheme"`
		Published   bool        `json:"published" bson:"published" db:"published"`
		SharedWith  []string    `json:"shared_with" bson:"shared_with"`
		CreatedAt   time.Time   `json:"created_at" bson:"created_at" db:"created_at"` // UTC
		UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at" db:"updated_at"` // UTC
	}

	// PublicTemplate is a Template as shown to respondents: no author, no audience.
	PublicTemplate struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		Description string      `json:"description"`
		ColorScheme ColorScheme `json:"color_scheme"`
		CreatedAt   time.Time   `json:"created_at"`
		UpdatedAt   time.Time   `json:"updated_at"`
	}
)

func (cs *ColorScheme) setDefaults() {
	if cs.PrimaryColor == "" {
		cs.PrimaryColor = DefaultPrimaryColor
	}
	if cs.BackgroundColor == "" {
		cs.BackgroundColor = DefaultBackgroundColor
	}
	if cs.TextColor == "" {
		cs.TextColor = DefaultTextColor
	}
}

// Field returns the Template's field with the given id.
func (t *Template) Public() PublicTemplate {
	return PublicTemplate{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ColorScheme: t.ColorScheme,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (t *Template) Field(id string) (Field, bool) {
	for _, fld := range t.Fields {
		if fld.ID == id {
			return fld, true
		}
	}
	return Field{}, false
}

// VisibleTo reports whether a respondent may see the Template.
// An empty SharedWith list means every respondent.
func (t *Template) VisibleTo(respondentID string) bool {
	if !t.Published {
		return false
	}
	if len(t.SharedWith) == 0 {
		return true
	}
	for _, id := range t.SharedWith {
		if id == respondentID {
			return true
		}
	}
	return false
}

// HasAutoFill reports whether any field is bound to a profile key.
func (t *Template) HasAutoFill() bool {
	for _, fld := range t.Fields {
		if fld.AutoFillKey != "" {
			return true
		}
	}
	return false
}
