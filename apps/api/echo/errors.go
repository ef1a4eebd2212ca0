package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/user"
)

var (
	errHttpForbidden       = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpTooManyRequests = echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts, please try again later")

	invalidInputMsg = "Invalid input"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, cookieName string) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body echo.Map

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing || origErr.Code == http.StatusUnauthorized {
				code = http.StatusUnauthorized
				body = echo.Map{"message": auth.ErrUnauthenticated.Error()}
				clearSessionCookie(ctx, cookieName)
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			body = echo.Map{"message": origErr.Message}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			body = echo.Map{"message": invalidInputMsg, "errors": fldErrs}
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				body = echo.Map{"message": invalidInputMsg, "errors": fldErrs}
			} else {
				body = echo.Map{"message": origErr.Error()}
			}
		case *core.NotFoundError:
			code = http.StatusNotFound
			body = echo.Map{"message": origErr.Error()}
		case *core.ConflictError:
			code = http.StatusConflict
			body = echo.Map{"message": origErr.Error()}
		default:
			switch origErr {
			case auth.ErrInvalidCredentials:
				code = http.StatusUnauthorized
			case auth.ErrUnauthenticated, auth.ErrStaleSession:
				code = http.StatusUnauthorized
				clearSessionCookie(ctx, cookieName)
			case auth.ErrAccountInactive:
				code = http.StatusForbidden
				clearSessionCookie(ctx, cookieName)
			}
			if code != 0 {
				body = echo.Map{"message": origErr.Error()}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			body = echo.Map{"message": msg}

			usr, _ := ctx.Get(contextUserKey).(user.User)
			logger.Error(msg, errors.Wrap(err, msg), usr)

			if ctx.Echo().Debug {
				body["error"] = err.Error()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
