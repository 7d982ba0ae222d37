package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/application"
)

type (
	applicationApi struct {
		svc *application.Service
	}

	applyResponse struct {
		Message     string                  `json:"message"`
		Application application.Application `json:"application"`
	}
)

func registerApplicationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *application.Service) {
	api := applicationApi{svc: svc}

	g.POST("/institutions/:id/apply", api.apply, jwt)
	g.GET("/applications", api.list, jwt)
}

func (api *applicationApi) apply(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	app, err := api.svc.Apply(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "applying")
	}
	return ctx.JSON(http.StatusCreated, applyResponse{Message: application.SubmittedMessage, Application: app})
}

// list is the student dashboard.
func (api *applicationApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	apps, err := api.svc.ListForStudent(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}
