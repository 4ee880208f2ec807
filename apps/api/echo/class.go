package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
)

type classApi struct {
	svc        school.Service
	stdSvc     student.Service
	authorizer *auth.Authorizer
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := classApi{
		svc:        deps.ClassSvc,
		stdSvc:     deps.StudentSvc,
		authorizer: deps.Authorizer,
	}

	cg := g.Group("/classes", jwt)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, staffMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())
	cg.GET("/:id/students", api.queryStudents, staffMiddleware())
}

func (api *classApi) create(ctx echo.Context) error {
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

// query returns the classes visible to the session: all active classes for
// admins, assigned classes for teachers, nothing for the rest.
func (api *classApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	classes, err := api.authorizer.Classes(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpNotFound
	}

	cls, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpForbidden
	}

	var data school.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}

	origCls, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}
	if err := data.Validate(origCls); err != nil {
		return err
	}

	cls, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) queryStudents(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpForbidden
	}

	students, err := api.stdSvc.QueryByClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}
