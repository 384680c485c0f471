package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

type profileApi struct {
	usrSvc   *user.Service
	svc      *profile.Service
	validate *validator.Validate
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc *user.Service, svc *profile.Service, validate *validator.Validate) {
	api := profileApi{usrSvc: usrSvc, svc: svc, validate: validate}

	own := g.Group("/profile", jwt, studentMiddleware())
	own.GET("", api.retrieveOwn)
	own.PUT("", api.updateOwn)

	g.GET("/profiles/:id", api.retrieve, jwt, adminMiddleware())
}

func (api *profileApi) retrieveOwn(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	p, err := api.svc.Get(ctx.Request().Context(), usr.ID)
	if err != nil {
		if !core.IsNotFound(err) {
			return errors.Wrap(err, "finding profile")
		}
		// first visit: start from the account details
		p = profile.Profile{UserID: usr.ID, Name: usr.Name, Email: usr.Email}
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profileApi) updateOwn(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data profile.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Save(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}
