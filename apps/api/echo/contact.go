package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/contact"
)

func registerContactAPI(g *echo.Group, svc *contact.Service) {
	g.POST("/contact", func(ctx echo.Context) error {
		var msg contact.Message
		if err := ctx.Bind(&msg); err != nil {
			return errors.Wrap(err, "binding to contact.Message")
		}
		if _, err := svc.Submit(ctx.Request().Context(), msg); err != nil {
			return errors.Wrap(err, "submitting contact message")
		}
		return ctx.JSON(http.StatusCreated, echo.Map{"message": contact.ReceivedMessage})
	})
}
