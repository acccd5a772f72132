package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/social"
	"github.com/trezcool/darasa/core/user"
)

type socialApi struct {
	svc     *social.Service
	userSvc *user.Service
}

func registerSocialAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *social.Service, userSvc *user.Service) {
	api := socialApi{svc: svc, userSvc: userSvc}

	sg := g.Group("/status-updates", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create)
}

// Handlers

func (api *socialApi) create(ctx echo.Context) error {
	var data social.NewStatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStatusUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	su, err := api.svc.Create(ctx.Request().Context(), author, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, su)
}

func (api *socialApi) query(ctx echo.Context) error {
	limit := intQueryParam(ctx, "limit", defaultPageSize)
	offset := intQueryParam(ctx, "offset", 0)

	sus, err := api.svc.Query(ctx.Request().Context(), ctx.QueryParam("author"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status_updates": sus})
}
