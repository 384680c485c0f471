package form

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

func newTestValidator(t *testing.T, keys ...string) (*validator.Validate, ut.Translator, *Resolver) {
	t.Helper()
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	resolver, err := NewResolver(keys)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	InitValidators(validate, translator, resolver)
	return validate, translator, resolver
}
