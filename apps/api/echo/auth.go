package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/user"
	"github.com/alfurqan/portal/services/metrics"
)

var (
	contextTokenKey   = "sessionToken"
	contextUserKey    = "user"
	contextSessionKey = "session"

	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
)

// Claims is the payload of the session cookie. The JWT ID is the server-side session ID.
type Claims struct {
	jwt.StandardClaims
}

// sessionManager issues, reads and clears the signed session cookie.
type sessionManager struct {
	secret     []byte
	cookieName string
	secure     bool
	appName    string
	svc        *auth.Service
}

func newSessionManager(conf *core.Config, svc *auth.Service) *sessionManager {
	return &sessionManager{
		secret:     []byte(conf.SecretKey),
		cookieName: conf.Session.CookieName,
		secure:     !(conf.Debug || conf.TestMode),
		appName:    conf.AppName,
		svc:        svc,
	}
}

// GenerateToken signs a session cookie value for sess.
func GenerateToken(sess auth.Session, appName string, secret []byte) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sess.ID,
			Issuer:    appName,
			Subject:   sess.UserID,
			IssuedAt:  sess.CreatedAt.Unix(),
			ExpiresAt: sess.ExpiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (sm *sessionManager) parse(raw string) (Claims, bool) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return sm.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, false
	}
	return claims, true
}

// sessionID returns the session ID carried by the request cookie, if it holds a valid token.
func (sm *sessionManager) sessionID(ctx echo.Context) string {
	cookie, err := ctx.Cookie(sm.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	claims, ok := sm.parse(cookie.Value)
	if !ok {
		return ""
	}
	return claims.Id
}

func (sm *sessionManager) setCookie(ctx echo.Context, sess auth.Session) error {
	token, err := GenerateToken(sess, sm.appName, sm.secret)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sm.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(ctx echo.Context, name string) {
	ctx.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// jwtMiddleware rejects requests without a validly signed session cookie.
func (sm *sessionManager) jwtMiddleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    sm.secret,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
		TokenLookup:   "cookie:" + sm.cookieName,
	})
}

// sessionMiddleware loads the session User; it must run after jwtMiddleware.
func (sm *sessionManager) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token, ok := ctx.Get(contextTokenKey).(*jwt.Token)
		if !ok {
			return auth.ErrUnauthenticated
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return auth.ErrUnauthenticated
		}
		usr, sess, err := sm.svc.CurrentUser(ctx.Request().Context(), claims.Id)
		if err != nil {
			return err
		}
		ctx.Set(contextUserKey, usr)
		ctx.Set(contextSessionKey, sess)
		return next(ctx)
	}
}

// optionalSession loads the session User when the request carries a valid session; anonymous requests go through.
func (sm *sessionManager) optionalSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if sid := sm.sessionID(ctx); sid != "" {
			if usr, sess, err := sm.svc.CurrentUser(ctx.Request().Context(), sid); err == nil {
				ctx.Set(contextUserKey, usr)
				ctx.Set(contextSessionKey, sess)
			}
		}
		return next(ctx)
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errors.Wrap(errUsrNotFoundInCtx, "getting context user")
}

// guard builds the middleware chains protecting API routes.
type guard struct {
	jwt     echo.MiddlewareFunc
	session echo.MiddlewareFunc
}

// roles requires a session whose user has one of roles; no roles means any session.
func (g guard) roles(roles ...user.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.jwt, g.session, rolesMiddleware(roles...)}
}

// selfOr requires a session whose user is the `:id` path param, or has one of roles.
func (g guard) selfOr(roles ...user.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.jwt, g.session, selfOrRolesMiddleware(roles...)}
}

type authApi struct {
	svc      *auth.Service
	sessions *sessionManager
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, gd guard, sessions *sessionManager, svc *auth.Service, validate *validator.Validate, limiter *loginRateLimiter) {
	api := authApi{svc: svc, sessions: sessions, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login, rateLimitMiddleware(limiter))
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me, gd.roles()...)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, sess, err := api.svc.Login(ctx.Request().Context(), data.UniqueID, data.Password)
	switch errors.Cause(err) {
	case nil:
		metrics.Logins.WithLabelValues("success").Inc()
	case auth.ErrInvalidCredentials:
		metrics.Logins.WithLabelValues("invalid").Inc()
		return err
	case auth.ErrAccountInactive:
		metrics.Logins.WithLabelValues("inactive").Inc()
		return err
	default:
		return errors.Wrap(err, "logging in")
	}

	if err = api.sessions.setCookie(ctx, sess); err != nil {
		return errors.Wrap(err, "setting session cookie")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"user": usr, "message": "Login successful"})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"user": usr})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.svc.Logout(ctx.Request().Context(), api.sessions.sessionID(ctx)); err != nil {
		return errors.Wrap(err, "logging out")
	}
	clearSessionCookie(ctx, api.sessions.cookieName)
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Logged out successfully"})
}

type (
	LoginRequest struct {
		UniqueID string `json:"uniqueId" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	SuccessResponse struct {
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.UniqueID = strings.ToUpper(core.CleanString(lr.UniqueID))
	lr.Password = core.CleanString(lr.Password)
	return validate.Struct(lr)
}
