package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/compare"
	"github.com/trezcool/findgreatschool/core/institution"
)

func registerCompareAPI(g *echo.Group, svc *institution.Service) {
	asm := compare.NewAssembler(svc)

	// GET /compare?id=..&id=.. : the comparison page of the given selection, in selection order.
	g.GET("/compare", func(ctx echo.Context) error {
		ids := core.CleanStrings(ctx.QueryParams()["id"])
		if len(ids) > compare.MaxItems {
			return echo.NewHTTPError(http.StatusBadRequest, compare.ErrCapacityExceeded.Error())
		}
		m, err := asm.Assemble(ctx.Request().Context(), ids)
		if err != nil {
			return errors.Wrap(err, "assembling comparison")
		}
		return ctx.JSON(http.StatusOK, compare.NewPage(m))
	})
}
