package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/user"
)

type announcementApi struct {
	svc announcement.Service
}

func registerAnnouncementAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := announcementApi{svc: deps.AnnouncementSvc}

	ag := g.Group("/announcements", jwt)
	ag.POST("", api.create, adminMiddleware())
	ag.GET("", api.query)
	ag.GET("/all", api.queryAll, adminMiddleware())
	ag.POST("/:id/deactivate", api.deactivate, adminMiddleware())
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *announcementApi) create(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.CreatedBy = claims.Subject

	if err := data.Validate(); err != nil {
		return err
	}

	ann, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

// query returns the active announcements targeting the session's role or all roles.
func (api *announcementApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	announcements, err := api.svc.QueryForRole(ctx.Request().Context(), user.ParseRole(claims.Role))
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if announcements == nil {
		announcements = []announcement.Announcement{}
	}
	return ctx.JSON(http.StatusOK, announcements)
}

func (api *announcementApi) queryAll(ctx echo.Context) error {
	announcements, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if announcements == nil {
		announcements = []announcement.Announcement{}
	}
	return ctx.JSON(http.StatusOK, announcements)
}

func (api *announcementApi) deactivate(ctx echo.Context) error {
	ann, err := api.svc.Deactivate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deactivating announcement")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}
