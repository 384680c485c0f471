package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

const noResponsesMessage = "This form has no responses yet."

type formApi struct {
	usrSvc   *user.Service
	svc      *form.Service
	validate *validator.Validate
}

func registerFormAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc *user.Service, svc *form.Service, validate *validator.Validate) {
	api := formApi{usrSvc: usrSvc, svc: svc, validate: validate}

	fg := g.Group("/forms", jwt)
	fg.GET("/autofill-keys", api.autoFillKeys, adminMiddleware())
	fg.GET("", api.list)
	fg.POST("", api.create, adminMiddleware())

	dg := fg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.GET("/schema", api.schema)
	dg.POST("/validate", api.validateAnswers)
	dg.POST("/submit", api.submit, studentMiddleware())
	dg.GET("/submission", api.submission, studentMiddleware())
	dg.GET("/responses", api.responses, adminMiddleware())
	dg.GET("/export", api.export, adminMiddleware())
}

// Handlers

func (api *formApi) autoFillKeys(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, AutoFillKeysResponse{Keys: api.svc.AutoFillKeys()})
}

func (api *formApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if !usr.IsAdmin() {
		tmpls, err := api.svc.ListVisible(ctx.Request().Context(), usr.ID)
		if err != nil {
			return errors.Wrap(err, "listing forms")
		}
		public := make([]form.PublicTemplate, 0, len(tmpls))
		for _, tmpl := range tmpls {
			public = append(public, tmpl.Public())
		}
		return ctx.JSON(http.StatusOK, public)
	}

	tmpls, err := api.svc.ListOwned(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "listing forms")
	}
	if tmpls == nil {
		tmpls = []form.Template{}
	}
	return ctx.JSON(http.StatusOK, tmpls)
}

func (api *formApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data form.NewTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTemplate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tmpl, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating form")
	}
	return ctx.JSON(http.StatusCreated, tmpl)
}

// retrieve returns the template to its author, and the prefilled view to respondents.
func (api *formApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if usr.IsAdmin() {
		tmpl, err := api.svc.GetOwned(ctx.Request().Context(), usr, ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "getting form")
		}
		return ctx.JSON(http.StatusOK, tmpl)
	}

	view, err := api.svc.GetForRespondent(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting form")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *formApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	tmpl, err := api.svc.GetOwned(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting form")
	}

	var data form.UpdateTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTemplate")
	}
	nt := data.Merge(tmpl)
	if err := nt.Validate(api.validate); err != nil {
		return err
	}

	tmpl, err = api.svc.Replace(ctx.Request().Context(), tmpl, nt)
	if err != nil {
		return errors.Wrap(err, "updating form")
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *formApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), usr, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting form")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *formApi) schema(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	s, err := api.svc.Schema(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}
	return ctx.JSON(http.StatusOK, s)
}

// validateAnswers runs the client schema against raw values without storing anything.
func (api *formApi) validateAnswers(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	s, err := api.svc.Schema(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}

	var data ValidateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ValidateRequest")
	}
	violations := s.Validate(data.Values, data.environment())
	if violations == nil {
		violations = []form.Violation{}
	}
	return ctx.JSON(http.StatusOK, ValidateResponse{Valid: len(violations) == 0, Violations: violations})
}

func (api *formApi) submit(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitRequest")
	}

	resp, err := api.svc.Submit(ctx.Request().Context(), usr, ctx.Param("id"), data.Responses)
	if err != nil {
		return errors.Wrap(err, "submitting form")
	}
	return ctx.JSON(http.StatusCreated, SubmitResponse{
		ID:          resp.ID,
		TemplateID:  resp.TemplateID,
		SubmittedAt: resp.SubmittedAt.Format(form.SubmittedAtFmt),
		Responses:   resp.Entries,
	})
}

func (api *formApi) submission(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	view, err := api.svc.GetSubmission(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting submission")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *formApi) responses(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	tbl, err := api.svc.Responses(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing responses")
	}
	return ctx.JSON(http.StatusOK, tbl)
}

func (api *formApi) export(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	res, err := api.svc.Export(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "exporting responses")
	}
	if res.NoResponses {
		return ctx.JSON(http.StatusOK, ExportInfoResponse{NoResponses: true, Message: noResponsesMessage})
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	return ctx.Blob(http.StatusOK, form.XLSXContentType, res.Content.Bytes())
}
