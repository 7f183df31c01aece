package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenHeader is the custom header clients present the signed token in.
const TokenHeader = "x-auth-token"

// UserIDKey is the echo context key the authenticated user id is stored
// under.
const UserIDKey = "user_id"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// Auth validates the token from the x-auth-token header and injects the
// embedded user id into the request context. It is stateless and never
// touches persistence.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(TokenHeader)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}

			userID, ok := userIDClaim(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// userIDClaim digs the user id out of the {"user":{"id":...}} payload.
func userIDClaim(claims jwt.MapClaims) (string, bool) {
	user, ok := claims["user"].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := user["id"].(string)
	return id, ok && id != ""
}
