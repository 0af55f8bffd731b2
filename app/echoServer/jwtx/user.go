// Package jwtx reads the request identity placed in context by the auth
// middleware. The core never authenticates; it only consumes {userId, role}.
package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"
)

func UserID(c echo.Context) (int64, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok || id <= 0 {
		return 0, errors.New("no user in context")
	}
	return id, nil
}

func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
