package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/session"
	"github.com/skillbridge/portal/services/crmapi"
)

const (
	tokenContextKey   = "userToken"
	sessionContextKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT.
// Tokens are issued by the backend; the API only verifies them.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
	Team  string `json:"team,omitempty"`
}

// NewClaims returns the claims of a token valid for ttl.
func NewClaims(conf *core.Config, email, role, team, name string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   core.CleanString(email, true /* lower */),
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: email,
		Name:  name,
		Role:  role,
		Team:  team,
	}
}

func (c Claims) Session() session.Session {
	return session.New(c.Email, c.Role, c.Team, c.Name)
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func newJWTConfig(secret string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:     []byte(secret),
		SigningMethod:  middleware.AlgorithmHS256,
		ContextKey:     tokenContextKey,
		Claims:         new(Claims),
		SuccessHandler: setContextSession,
	}
}

// optional lets requests without an Authorization header through as anonymous. Invalid tokens are still rejected.
func optional(conf middleware.JWTConfig) middleware.JWTConfig {
	conf.Skipper = func(ctx echo.Context) bool {
		return strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderAuthorization)) == ""
	}
	return conf
}

// setContextSession stores the Session of the verified token and forwards the token to the backend client.
func setContextSession(ctx echo.Context) {
	token, ok := ctx.Get(tokenContextKey).(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return
	}
	ctx.Set(sessionContextKey, claims.Session())

	req := ctx.Request()
	ctx.SetRequest(req.WithContext(crmapi.WithToken(req.Context(), token.Raw)))
}

// getContextSession returns the Session of the request; anonymous when no valid token was sent.
func getContextSession(ctx echo.Context) session.Session {
	if sess, ok := ctx.Get(sessionContextKey).(session.Session); ok {
		return sess
	}
	return session.Anonymous()
}

func newRequestID() string {
	return uuid.NewString()
}
