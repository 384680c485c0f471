package form

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

var (
	fieldTypeTag  = "fieldtype"
	fieldTypeText = "must be one of " + joinFieldTypes()

	autoFillKeyTag  = "autofillkey"
	autoFillKeyText = "unknown auto-fill key"

	selectOptionsTag  = "selectoptions"
	selectOptionsText = "select fields need at least one option"

	uniqueIDsTag  = "uniqueids"
	uniqueIDsText = "field ids must be unique"
)

func joinFieldTypes() string {
	names := make([]string, 0, len(FieldTypes))
	for _, ft := range FieldTypes {
		names = append(names, string(ft))
	}
	return strings.Join(names, ", ")
}

// InitValidators registers the form validators & their translations.
// `resolver` supplies the auto-fill allow-list.
func InitValidators(validate *validator.Validate, translator ut.Translator, resolver *Resolver) {
	_ = validate.RegisterValidation(fieldTypeTag, func(fl validator.FieldLevel) bool {
		return FieldType(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, fieldTypeTag, fieldTypeText)

	_ = validate.RegisterValidation(autoFillKeyTag, func(fl validator.FieldLevel) bool {
		return resolver.Allowed(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, autoFillKeyTag, autoFillKeyText)

	validate.RegisterStructValidation(fieldStructValidation, Field{})
	core.RegisterCustomTranslation(validate, translator, selectOptionsTag, selectOptionsText)

	validate.RegisterStructValidation(templateStructValidation, NewTemplate{})
	core.RegisterCustomTranslation(validate, translator, uniqueIDsTag, uniqueIDsText)
}

// fieldStructValidation checks that select fields carry options.
func fieldStructValidation(sl validator.StructLevel) {
	fld := sl.Current().Interface().(Field)
	if fld.Type == FieldSelect && len(fld.Options) == 0 {
		sl.ReportError(fld.Options, "options", "Options", selectOptionsTag, "")
	}
}

// templateStructValidation checks that field ids are unique within the template.
func templateStructValidation(sl validator.StructLevel) {
	nt := sl.Current().Interface().(NewTemplate)
	seen := make(map[string]struct{}, len(nt.Fields))
	for _, fld := range nt.Fields {
		if _, dup := seen[fld.ID]; dup {
			sl.ReportError(nt.Fields, "fields", "Fields", uniqueIDsTag, "")
			return
		}
		seen[fld.ID] = struct{}{}
	}
}
