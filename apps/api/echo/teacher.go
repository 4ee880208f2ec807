package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

type teacherApi struct {
	svc teacher.Service
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := teacherApi{svc: deps.TeacherSvc}

	tg := g.Group("/teachers", jwt)
	tg.POST("", api.create, adminMiddleware())
	tg.GET("", api.query, adminMiddleware())
	tg.GET("/:id", api.retrieve, staffMiddleware())
	tg.PUT("/:id", api.update, adminMiddleware())
	tg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	tch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.QueryActive(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}

	// teachers may only retrieve their own record
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.Role != string(user.RoleAdmin) && tch.UserID != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) update(ctx echo.Context) error {
	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}

	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(tch); err != nil {
		return err
	}

	tch, err = api.svc.Update(ctx.Request().Context(), tch.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
