package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/notification"
)

const defaultPageSize = 50

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query)
	ng.POST("/mark-all-read", api.markAllRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	unreadOnly, _ := strconv.ParseBool(ctx.QueryParam("unread"))
	limit := intQueryParam(ctx, "limit", defaultPageSize)
	offset := intQueryParam(ctx, "offset", 0)

	var ns []notification.Notification
	if unreadOnly {
		ns, err = api.svc.Unread(ctx.Request().Context(), claims.UserID(), limit, offset)
	} else {
		ns, err = api.svc.Query(ctx.Request().Context(), claims.UserID(), limit, offset)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"notifications": ns})
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	updated, err := api.svc.MarkAllRead(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"updated": updated})
}

func intQueryParam(ctx echo.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(ctx.QueryParam(name)); err == nil && v >= 0 {
		return v
	}
	return fallback
}
