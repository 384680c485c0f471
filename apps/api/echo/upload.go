package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

type uploadApi struct {
	usrSvc   *user.Service
	uploader core.FileUploader
	maxSize  int64
}

func registerUploadAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc *user.Service, uploader core.FileUploader, maxSize int64) {
	api := uploadApi{usrSvc: usrSvc, uploader: uploader, maxSize: maxSize}
	g.POST("/uploads", api.upload, jwt)
}

func (api *uploadApi) upload(ctx echo.Context) error {
	if _, err := getContextUser(ctx, api.usrSvc); err != nil {
		return errors.Wrap(err, "getting context user")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file is required"})
	}
	if api.maxSize > 0 && fh.Size > api.maxSize {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file is too large"})
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	url, err := api.uploader.Upload(ctx.Request().Context(), fh.Filename, fh.Header.Get(echo.HeaderContentType), f, fh.Size)
	if err != nil {
		return errors.Wrap(err, "uploading file")
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{URL: url})
}
