package auth

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PragyeNawani/wheelify/app/echoServer/controller/respond"
	"github.com/PragyeNawani/wheelify/model"
	authsvc "github.com/PragyeNawani/wheelify/service/auth"
)

type Controller struct {
	svc authsvc.Service
	log *slog.Logger
}

func NewController(svc authsvc.Service, log *slog.Logger) *Controller {
	return &Controller{svc: svc, log: log}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body model.RegisterReq true "registration payload"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /auth/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := ct.svc.Register(c.Request().Context(), req)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user":  user,
		"token": token,
	})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body model.LoginReq true "login payload"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Router       /auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := ct.svc.Login(c.Request().Context(), req)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":  user,
		"token": token,
	})
}
