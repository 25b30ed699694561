package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/school"
)

type schoolApi struct {
	svc      *school.Service
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, svc *school.Service, validate *validator.Validate) {
	api := schoolApi{svc: svc, validate: validate}

	// public: used by the sign-up form before any session exists
	g.GET("/schools/check", api.check)
}

func (api *schoolApi) check(ctx echo.Context) error {
	var query SchoolCheckRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to SchoolCheckRequest")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	sch, exists, err := api.svc.CheckSchool(ctx.Request().Context(), query.Name)
	if err != nil {
		return errors.Wrap(err, "checking school")
	}
	resp := SchoolCheckResponse{Exists: exists}
	if exists {
		resp.SchoolID = null.StringFrom(sch.ID)
	}
	return ctx.JSON(http.StatusOK, resp)
}

type (
	SchoolCheckRequest struct {
		Name string `query:"name" validate:"required"`
	}

	SchoolCheckResponse struct {
		Exists   bool        `json:"exists"`
		SchoolID null.String `json:"schoolId"`
	}
)

func (sr *SchoolCheckRequest) Validate(validate *validator.Validate) error {
	sr.Name = core.CleanString(sr.Name)
	return validate.Struct(sr)
}
