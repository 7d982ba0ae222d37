package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/institution"
)

type adminApi struct {
	svc *institution.Service
}

func registerAdminAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, svc *institution.Service) {
	api := adminApi{svc: svc}

	ag := g.Group("/admin/institutions", jwt, admin)
	ag.GET("", api.pending)
	ag.GET("/:id", api.retrieve)
	ag.POST("/:id/approve", api.approve)
	ag.DELETE("/:id", api.reject)
}

// pending is the moderation queue.
func (api *adminApi) pending(ctx echo.Context) error {
	var filter institution.PendingFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to PendingFilter")
	}
	page, err := api.svc.Pending(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying pending institutions")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *adminApi) retrieve(ctx echo.Context) error {
	inst, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting institution")
	}
	return ctx.JSON(http.StatusOK, inst)
}

func (api *adminApi) approve(ctx echo.Context) error {
	if err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "approving institution")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) reject(ctx echo.Context) error {
	if err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "rejecting institution")
	}
	return ctx.NoContent(http.StatusNoContent)
}
