package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/school"
	"github.com/trezcool/rapor/core/session"
	"github.com/trezcool/rapor/core/user"
)

// academicsApi serves the staff (admin & teacher) endpoints.
type academicsApi struct {
	svc *school.Service
}

func registerAcademicsAPI(g *echo.Group, resolver *session.Resolver, svc *school.Service) {
	api := academicsApi{svc: svc}
	staff := requireRole(resolver, user.RoleAdmin, user.RoleTeacher)

	g.GET("/students", api.queryStudents, staff)
	g.GET("/students/:id/report-cards", api.reportCards, staff)
	g.GET("/subjects", api.querySubjects, staff)
	g.DELETE("/assessments/:id", api.destroyAssessment, staff)
}

// Handlers

func (api *academicsApi) queryStudents(ctx echo.Context) error {
	filter := new(school.StudentFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []school.Student{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.QueryStudents(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *academicsApi) reportCards(ctx echo.Context) error {
	cards, err := api.svc.ReportCards(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrStudentNotFound {
			return errStudentNotFound
		}
		return errors.Wrap(err, "querying report cards")
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *academicsApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *academicsApi) destroyAssessment(ctx echo.Context) error {
	if err := api.svc.DeleteAssessment(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting assessment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
