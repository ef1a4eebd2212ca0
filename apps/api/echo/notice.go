package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/notice"
	"github.com/alfurqan/portal/core/user"
)

type noticeApi struct {
	svc      *notice.Service
	validate *validator.Validate
}

func registerNoticeAPI(g *echo.Group, gd guard, svc *notice.Service, validate *validator.Validate) {
	api := noticeApi{svc: svc, validate: validate}

	ng := g.Group("/notices")
	ng.GET("", api.list, gd.roles()...)
	ng.POST("", api.create, gd.roles(user.AdminRoles...)...)
	ng.DELETE("/:id", api.destroy, gd.roles(user.AdminRoles...)...)
}

func (api *noticeApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	notices, err := api.svc.ListFor(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "listing notices")
	}
	return ctx.JSON(http.StatusOK, nonNil(notices))
}

func (api *noticeApi) create(ctx echo.Context) error {
	var data notice.NewNotice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), data, usr.ID)
	if err != nil {
		return errors.Wrap(err, "creating notice")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *noticeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Notice deleted"})
}
