package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/auth"
)

type attendanceApi struct {
	svc        attendance.Service
	authorizer *auth.Authorizer
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:        deps.AttendanceSvc,
		authorizer: deps.Authorizer,
	}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, staffMiddleware())
	ag.GET("/class/:classID", api.queryByClass, staffMiddleware())
}

// mark creates or replaces the attendance record for (student, day); a
// second mark for the same day overwrites the first.
func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.MarkedBy = claims.Subject

	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpForbidden
	}

	att, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) queryByClass(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, ctx.Param("classID"))
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpForbidden
	}

	date := time.Now()
	if v := ctx.QueryParam("date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			date = t
		}
	}

	records, err := api.svc.QueryByClass(ctx.Request().Context(), ctx.Param("classID"), date)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, records)
}
