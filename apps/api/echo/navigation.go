package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core/navigation"
	"github.com/alfurqan/portal/services/uploads"
)

func registerNavigationAPI(g *echo.Group, gd guard) {
	g.GET("/navigation", navigationMenu, gd.roles()...)
}

func navigationMenu(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, navigation.MenuFor(usr.Role))
}

// registerUploadsAPI serves stored uploads to signed-in users.
func registerUploadsAPI(app *echo.Echo, gd guard, files FileServer) {
	app.GET(uploads.URLPrefix+":filename", func(ctx echo.Context) error {
		p, err := files.Path(ctx.Param("filename"))
		if err != nil {
			return errors.Wrap(err, "resolving upload")
		}
		return ctx.File(p)
	}, gd.roles()...)
}
