package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/student"
)

type studentApi struct {
	svc        student.Service
	attSvc     attendance.Service
	grdSvc     grade.Service
	authorizer *auth.Authorizer
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:        deps.StudentSvc,
		attSvc:     deps.AttendanceSvc,
		grdSvc:     deps.GradeSvc,
		authorizer: deps.Authorizer,
	}

	sg := g.Group("/students", jwt)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy, adminMiddleware())
	sg.GET("/:id/attendance", api.queryAttendance)
	sg.GET("/:id/grades", api.queryGrades)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

// query returns the student records visible to the session: all active
// students for admins, class rosters for teachers, the own record for
// students, linked children for parents.
func (api *studentApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	students, err := api.authorizer.Students(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ok, err := api.authorizer.CanModifyStudent(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking student access")
	}
	if !ok {
		return errHttpForbidden
	}

	std, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(std); err != nil {
		return err
	}

	std, err = api.svc.Update(ctx.Request().Context(), std.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) queryAttendance(ctx echo.Context) error {
	std, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}

	from, to := parseDateRange(ctx)
	records, err := api.attSvc.QueryByStudent(ctx.Request().Context(), std.ID, from, to)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}

	rate, err := api.attSvc.PresenceRate(ctx.Request().Context(), std.ID, from, to)
	if err != nil {
		return errors.Wrap(err, "computing presence rate")
	}
	return ctx.JSON(http.StatusOK, StudentAttendanceResponse{Records: records, PresenceRate: rate})
}

func (api *studentApi) queryGrades(ctx echo.Context) error {
	std, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}

	grades, err := api.grdSvc.QueryByStudent(ctx.Request().Context(), std.ID)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}

	average, err := api.grdSvc.StudentAverage(ctx.Request().Context(), std.ID)
	if err != nil {
		return errors.Wrap(err, "computing student average")
	}
	return ctx.JSON(http.StatusOK, StudentGradesResponse{
		Grades:        grades,
		Average:       average,
		AverageLetter: grade.LetterGrade(average),
	})
}

// visibleStudent resolves :id and enforces the ownership rules; records the
// actor may not see surface as a 404.
func (api *studentApi) visibleStudent(ctx echo.Context) (student.Student, error) {
	actor, err := getContextActor(ctx)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting context actor")
	}

	ok, err := api.authorizer.CanViewStudent(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "checking student access")
	}
	if !ok {
		return student.Student{}, errHttpNotFound
	}

	std, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return std, nil
}

func parseDateRange(ctx echo.Context) (from, to time.Time) {
	if v := ctx.QueryParam("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := ctx.QueryParam("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t
		}
	}
	return from, to
}

type (
	StudentAttendanceResponse struct {
		Records      []attendance.Attendance `json:"records"`
		PresenceRate float64                 `json:"presence_rate"`
	}

	StudentGradesResponse struct {
		Grades        []grade.Grade `json:"grades"`
		Average       float64       `json:"average"`
		AverageLetter string        `json:"average_letter"`
	}
)
