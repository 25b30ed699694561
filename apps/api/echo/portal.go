package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/school"
	"github.com/trezcool/rapor/core/session"
	"github.com/trezcool/rapor/core/user"
)

// portalApi serves the parent & student portals: every query is scoped to the session user.
type portalApi struct {
	svc *school.Service
}

func registerPortalAPI(g *echo.Group, resolver *session.Resolver, svc *school.Service) {
	api := portalApi{svc: svc}

	pg := g.Group("/parent", requireRole(resolver, user.RoleParent))
	pg.GET("/children", api.children)
	pg.GET("/assessments", api.parentAssessments)

	sg := g.Group("/student", requireRole(resolver, user.RoleStudent))
	sg.GET("/assessments", api.studentAssessments)
}

// Handlers

func (api *portalApi) children(ctx echo.Context) error {
	usr, err := mustContextUser(ctx)
	if err != nil {
		return err
	}

	students, err := api.svc.Children(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "querying children")
	}
	children := make([]school.Child, 0, len(students))
	for _, s := range students {
		children = append(children, s.Child())
	}
	return ctx.JSON(http.StatusOK, children)
}

func (api *portalApi) parentAssessments(ctx echo.Context) error {
	usr, err := mustContextUser(ctx)
	if err != nil {
		return err
	}

	assessments, err := api.svc.ParentAssessments(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "querying parent assessments")
	}
	return ctx.JSON(http.StatusOK, assessments)
}

func (api *portalApi) studentAssessments(ctx echo.Context) error {
	usr, err := mustContextUser(ctx)
	if err != nil {
		return err
	}

	assessments, err := api.svc.StudentAssessments(ctx.Request().Context(), usr)
	if err != nil {
		if errors.Cause(err) == school.ErrStudentNotFound {
			return errStudentNotFound
		}
		return errors.Wrap(err, "querying student assessments")
	}
	return ctx.JSON(http.StatusOK, assessments)
}
