package driver

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/PragyeNawani/wheelify/app/echoServer/controller/respond"
	"github.com/PragyeNawani/wheelify/model"
	driversvc "github.com/PragyeNawani/wheelify/service/driver"
)

type Controller struct {
	svc driversvc.Service
	log *slog.Logger
}

func NewController(svc driversvc.Service, log *slog.Logger) *Controller {
	return &Controller{svc: svc, log: log}
}

// List godoc
// @Summary      Browse drivers for hire
// @Tags         drivers
// @Produce      json
// @Param        available query bool false "only available drivers"
// @Success      200 {array} model.Driver
// @Router       /drivers [get]
func (ct *Controller) List(c echo.Context) error {
	onlyAvailable, _ := strconv.ParseBool(c.QueryParam("available"))
	drivers, err := ct.svc.List(c.Request().Context(), onlyAvailable)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, drivers)
}

// Detail godoc
// @Summary      Get a single driver
// @Tags         drivers
// @Produce      json
// @Param        id path int true "driver id"
// @Success      200 {object} model.Driver
// @Failure      404 {object} map[string]interface{}
// @Router       /drivers/{id} [get]
func (ct *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid driver id"})
	}
	d, err := ct.svc.Detail(c.Request().Context(), id)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Create godoc
// @Summary      Add a driver to the roster
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body model.Driver true "driver payload"
// @Success      201 {object} model.Driver
// @Security     BearerAuth
// @Router       /admin/drivers [post]
func (ct *Controller) Create(c echo.Context) error {
	var d model.Driver
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := ct.svc.Create(c.Request().Context(), &d); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Update godoc
// @Summary      Update a driver
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path int true "driver id"
// @Param        body body model.Driver true "driver payload"
// @Success      200 {object} model.Driver
// @Security     BearerAuth
// @Router       /admin/drivers/{id} [put]
func (ct *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid driver id"})
	}
	var d model.Driver
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	d.ID = id
	if err := ct.svc.Update(c.Request().Context(), &d); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Delete godoc
// @Summary      Remove a driver from the roster
// @Tags         admin
// @Produce      json
// @Param        id path int true "driver id"
// @Success      200 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /admin/drivers/{id} [delete]
func (ct *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid driver id"})
	}
	if err := ct.svc.Delete(c.Request().Context(), id); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "driver deleted"})
}
