package form

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

// Environment selects how file rules behave.
type Environment int

const (
	// EnvBrowser checks that required file inputs hold at least one selected file.
	EnvBrowser Environment = iota
	// EnvServer skips file rules: there is no file handle list to inspect.
	EnvServer
)

// Base types of a Rule
const (
	BaseString = "string"
	BaseNumber = "number"
	BaseFile   = "file"
)

// Rule is the validation derived from one Field.
type Rule struct {
	FieldID  string `json:"field_id"`
	Label    string `json:"label"`
	Base     string `json:"type"`
	Format   string `json:"format,omitempty"` // email | date
	Pattern  string `json:"pattern,omitempty"`
	Coerce   bool   `json:"coerce,omitempty"`
	Required bool   `json:"required"`
	Optional bool   `json:"optional"`

	tag  string // validator tag applied to non-empty strings
	code string
}

// Schema validates respondent input field by field, in template order.
type Schema struct {
	Rules []Rule `json:"fields"`

	validate   *validator.Validate
	translator ut.Translator
}

// SchemaGenerator derives Schemas from field lists.
type SchemaGenerator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewSchemaGenerator(validate *validator.Validate, translator ut.Translator) *SchemaGenerator {
	return &SchemaGenerator{validate: validate, translator: translator}
}

// Generate maps every field to its Rule. The same field list always yields the same Schema.
func (gen *SchemaGenerator) Generate(fields []Field) *Schema {
	s := &Schema{Rules: make([]Rule, 0, len(fields)), validate: gen.validate, translator: gen.translator}
	for _, fld := range fields {
		s.Rules = append(s.Rules, ruleFor(fld))
	}
	return s
}

func ruleFor(fld Field) Rule {
	r := Rule{
		FieldID:  fld.ID,
		Label:    fld.Label,
		Base:     BaseString,
		Required: fld.Required,
		Optional: !fld.Required,
		code:     CodeInvalidType,
	}
	switch fld.Type {
	case FieldEmail:
		r.Format = "email"
		r.tag = "email"
		r.code = CodeEmail
	case FieldNumber:
		r.Base = BaseNumber
		r.Coerce = true
		r.tag = "numeric"
		r.code = CodeNumber
	case FieldDate:
		r.Format = "date"
		r.Pattern = `^\d{4}-\d{2}-\d{2}$`
		r.tag = core.ISODateTag
		r.code = CodeDate
	case FieldFile:
		r.Base = BaseFile
	case FieldSelect, FieldText:
	}
	return r
}

// Document returns the rules as sent to clients.
func (s *Schema) Document() []Rule {
	return append([]Rule(nil), s.Rules...)
}

// Validate checks `input` (field id -> decoded JSON value) and returns every violation.
func (s *Schema) Validate(input map[string]interface{}, env Environment) []Violation {
	var violations []Violation
	for _, r := range s.Rules {
		if v := s.check(r, input[r.FieldID], env); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

func (s *Schema) check(r Rule, raw interface{}, env Environment) *Violation {
	violation := func(code, msg string) *Violation {
		return &Violation{FieldID: r.FieldID, FieldLabel: r.Label, Code: code, Message: msg}
	}
	required := func() *Violation {
		if r.Optional {
			return nil
		}
		return violation(CodeRequired, s.message(nil, "required"))
	}

	switch r.Base {
	case BaseFile:
		if env == EnvServer {
			return nil
		}
		if countFiles(raw) == 0 {
			return required()
		}
		return nil

	case BaseNumber:
		switch x := raw.(type) {
		case nil:
			return required()
		case float64, float32, int, int32, int64:
			return nil
		case string:
			x = strings.TrimSpace(x)
			if x == "" {
				return required()
			}
			// same coercion as the stored answer
			if TextValue(x).ForField(FieldNumber).Kind() != KindNumber {
				return violation(r.code, s.message(x, r.tag))
			}
			return nil
		default:
			return violation(r.code, s.message(x, r.tag))
		}

	default:
		switch x := raw.(type) {
		case nil:
			return required()
		case string:
			if x == "" {
				return required()
			}
			if r.tag == "" {
				return nil
			}
			if err := s.validate.Var(x, r.tag); err != nil {
				return violation(r.code, s.translate(err))
			}
			return nil
		default:
			return violation(CodeInvalidType, "must be a string")
		}
	}
}

// message translates a failing tag for `val`.
func (s *Schema) message(val interface{}, tag string) string {
	if err := s.validate.Var(val, tag); err != nil {
		return s.translate(err)
	}
	return "invalid value"
}

func (s *Schema) translate(err error) string {
	if vErrs, ok := err.(validator.ValidationErrors); ok && len(vErrs) > 0 {
		return vErrs[0].Translate(s.translator)
	}
	return err.Error()
}

func countFiles(raw interface{}) int {
	switch x := raw.(type) {
	case nil:
		return 0
	case []interface{}:
		return len(x)
	case []string:
		return len(x)
	case string:
		if strings.TrimSpace(x) == "" {
			return 0
		}
		return 1
	}
	return 1
}
