package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/video"
)

var errTopicsRequired = errors.New("topics array is required")

type videoApi struct {
	svc        video.Service
	validate   *validator.Validate
	maxResults int
}

func registerVideoAPI(g *echo.Group, svc video.Service, validate *validator.Validate, maxResults int) {
	api := videoApi{svc: svc, validate: validate, maxResults: maxResults}

	g.POST("/videos/search", api.search)
	g.POST("/youtube/search", api.search) // legacy
}

// Handlers

func (api *videoApi) search(ctx echo.Context) error {
	var data video.SearchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SearchRequest")
	}
	if len(data.Topics) == 0 {
		return core.NewValidationError(errTopicsRequired)
	}
	if data.MaxResults == 0 {
		data.MaxResults = api.maxResults
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	videos := api.svc.Resolve(ctx.Request().Context(), data.Topics, data.MaxResults)
	return ctx.JSON(http.StatusOK, echo.Map{"videos": videos})
}
