package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/auth"
)

type assignmentApi struct {
	svc        assignment.Service
	authorizer *auth.Authorizer
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := assignmentApi{
		svc:        deps.AssignmentSvc,
		authorizer: deps.Authorizer,
	}

	ag := g.Group("/assignments", jwt)
	ag.POST("", api.create, staffMiddleware())
	ag.GET("/class/:classID", api.queryByClass)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, staffMiddleware())
	ag.DELETE("/:id", api.destroy, staffMiddleware())
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.CreatedBy = claims.Subject

	if err := data.Validate(ctx.Request().Context()); err != nil {
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

	asg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) queryByClass(ctx echo.Context) error {
	assignments, err := api.svc.QueryByClass(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, asg.ClassID)
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpForbidden
	}

	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(asg); err != nil {
		return err
	}

	asg, err = api.svc.Update(ctx.Request().Context(), asg.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	ok, err := api.authorizer.CanManageClass(ctx.Request().Context(), actor, asg.ClassID)
	if err != nil {
		return errors.Wrap(err, "checking class access")
	}
	if !ok {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), asg.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
