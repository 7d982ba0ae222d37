package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/compare"
	"github.com/trezcool/findgreatschool/core/institution"
)

const RegisteredMessage = "Institution registered! It will be listed once approved by an administrator."

// MaxLookupIDs is the maximum number of distinct `id` params of a lookup.
const MaxLookupIDs = 4 * compare.MaxItems

type (
	institutionApi struct {
		svc *institution.Service
	}

	searchResponse struct {
		Query   string                  `json:"query"`
		Filter  institution.FilterState `json:"filter"`
		Results []institution.Summary   `json:"results"`
	}

	registerResponse struct {
		Message     string                  `json:"message"`
		Institution institution.Institution `json:"institution"`
	}
)

func registerFilterAPI(g *echo.Group) {
	g.GET("/filters", filters)
}

func registerInstitutionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *institution.Service) {
	api := institutionApi{svc: svc}

	ig := g.Group("/institutions")
	ig.GET("", api.search)
	ig.GET("/lookup", api.lookup)
	ig.GET("/:id", api.retrieve)
	ig.POST("", api.register, jwt)
}

// Handlers

// filters renders the filter panel of the `category` query param, checked from the other codec params.
func filters(ctx echo.Context) error {
	fs := institution.DecodeValues(ctx.QueryParams())
	return ctx.JSON(http.StatusOK, institution.RenderPanel(fs.Category, fs))
}

func (api *institutionApi) search(ctx echo.Context) error {
	fs := institution.DecodeValues(ctx.QueryParams())
	results, err := api.svc.Search(ctx.Request().Context(), fs)
	if err != nil {
		return errors.Wrap(err, "searching institutions")
	}
	return ctx.JSON(http.StatusOK, searchResponse{
		Query:   institution.Encode(fs),
		Filter:  fs,
		Results: results,
	})
}

// lookup returns the approved institutions among the `id` query params, in request order.
func (api *institutionApi) lookup(ctx echo.Context) error {
	ids := core.CleanStrings(ctx.QueryParams()["id"])
	if len(ids) > MaxLookupIDs {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("you can look up a maximum of %d institutions", MaxLookupIDs))
	}
	insts, err := api.svc.GetApproved(ctx.Request().Context(), ids)
	if err != nil {
		return errors.Wrap(err, "looking up institutions")
	}
	return ctx.JSON(http.StatusOK, insts)
}

func (api *institutionApi) retrieve(ctx echo.Context) error {
	inst, err := api.svc.GetApprovedByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting institution")
	}
	return ctx.JSON(http.StatusOK, inst)
}

// register expects a multipart form: the NewInstitution fields and an optional `image` file.
func (api *institutionApi) register(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data institution.NewInstitution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInstitution")
	}

	var img *institution.Image
	fh, err := ctx.FormFile("image")
	switch err {
	case nil:
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening image")
		}
		defer f.Close()
		if img, err = institution.ReadImage(f, fh.Filename, fh.Header.Get(echo.HeaderContentType)); err != nil {
			return err
		}
	case http.ErrMissingFile, http.ErrNotMultipart:
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "image", Error: "could not read the uploaded file"})
	}

	inst, err := api.svc.Register(ctx.Request().Context(), claims.Subject, data, img)
	if err != nil {
		return errors.Wrap(err, "registering institution")
	}
	return ctx.JSON(http.StatusCreated, registerResponse{Message: RegisteredMessage, Institution: inst})
}
