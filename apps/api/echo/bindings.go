package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	UploadResponse struct {
		URL string `json:"url"`
	}

	AutoFillKeysResponse struct {
		Keys []string `json:"keys"`
	}

	SubmitRequest struct {
		Responses []form.Answer `json:"responses"`
	}

	SubmitResponse struct {
		ID          string       `json:"id"`
		TemplateID  string       `json:"template_id"`
		SubmittedAt string       `json:"submitted_at"`
		Responses   []form.Entry `json:"responses"`
	}

	// ValidateRequest carries raw answers keyed by field id.
	ValidateRequest struct {
		Values      map[string]interface{} `json:"values"`
		Environment string                 `json:"environment"` // browser | server (default)
	}

	ValidateResponse struct {
		Valid      bool             `json:"valid"`
		Violations []form.Violation `json:"violations"`
	}

	ExportInfoResponse struct {
		NoResponses bool   `json:"no_responses"`
		Message     string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func (vr ValidateRequest) environment() form.Environment {
	if core.CleanString(vr.Environment, true /* lower */) == "browser" {
		return form.EnvBrowser
	}
	return form.EnvServer
}
