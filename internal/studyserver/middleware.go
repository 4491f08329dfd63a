package studyserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/studyhall/study_core_server/internal/auth"
)

// JWTMiddleware authenticates Bearer tokens and stores the user in the
// request context. The "sub" claim is the user's database id; "col" is an
// optional institution id.
func JWTMiddleware(secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, err := authenticateJWT(c, secretKey)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func authenticateJWT(c echo.Context, secretKey []byte) (context.Context, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("no auth method")
	}

	userToken := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(userToken, func(token *jwt.Token) (interface{}, error) {
		// Ensure the signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		log.Err(err).Msg("err-parsing-token")
		return nil, errors.New("could not parse token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("could not parse token claims")
	}
	// Extract the subject (uid)
	uidStr, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("could not parse uid claim")
	}
	uid, err := strconv.Atoi(uidStr)
	if err != nil {
		return nil, errors.New("could not parse uid as an integer")
	}

	usn, ok := claims["usn"].(string)
	if !ok || usn == "" {
		return nil, errors.New("unexpected usn claim")
	}

	// Institution is optional; most individual accounts have none.
	collegeID := 0
	if col, ok := claims["col"].(float64); ok {
		collegeID = int(col)
	}

	ctx := c.Request().Context()
	ctx = auth.StoreUserInContext(ctx, uid, usn, collegeID)
	ctx = log.Ctx(ctx).With().Str("username", usn).Logger().WithContext(ctx)
	return ctx, nil
}
