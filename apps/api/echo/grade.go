package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/grade"
)

type gradeApi struct {
	svc        grade.Service
	authorizer *auth.Authorizer
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeApi{
		svc:        deps.GradeSvc,
		authorizer: deps.Authorizer,
	}

	gg := g.Group("/grades", jwt)
	gg.POST("", api.record, staffMiddleware())
	gg.GET("/assignment/:assignmentID", api.queryByAssignment, staffMiddleware())
}

// record creates or replaces the grade for (student, assignment); re-grading
// overwrites the previous score.
func (api *gradeApi) record(ctx echo.Context) error {
	var data grade.RecordGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordGrade")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.GradedBy = claims.Subject

	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	ok, err := api.authorizer.CanModifyStudent(ctx.Request().Context(), actor, data.StudentID)
	if err != nil {
		return errors.Wrap(err, "checking student access")
	}
	if !ok {
		return errHttpForbidden
	}

	grd, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording grade")
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *gradeApi) queryByAssignment(ctx echo.Context) error {
	grades, err := api.svc.QueryByAssignment(ctx.Request().Context(), ctx.Param("assignmentID"))
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}
