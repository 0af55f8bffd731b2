package car

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/PragyeNawani/wheelify/app/echoServer/controller/respond"
	"github.com/PragyeNawani/wheelify/model"
	carrepo "github.com/PragyeNawani/wheelify/repository/car"
	carsvc "github.com/PragyeNawani/wheelify/service/car"
)

type Controller struct {
	svc carsvc.Service
	log *slog.Logger
}

func NewController(svc carsvc.Service, log *slog.Logger) *Controller {
	return &Controller{svc: svc, log: log}
}

// List godoc
// @Summary      Browse the car catalogue
// @Tags         cars
// @Produce      json
// @Param        category  query string false "category filter"
// @Param        location  query string false "location filter"
// @Param        available query bool   false "only available cars"
// @Success      200 {array} model.Car
// @Router       /cars [get]
func (ct *Controller) List(c echo.Context) error {
	f := carrepo.Filter{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
	}
	f.AvailableOnly, _ = strconv.ParseBool(c.QueryParam("available"))

	cars, err := ct.svc.List(c.Request().Context(), f)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, cars)
}

// Detail godoc
// @Summary      Get a single car
// @Tags         cars
// @Produce      json
// @Param        id path int true "car id"
// @Success      200 {object} model.Car
// @Failure      404 {object} map[string]interface{}
// @Router       /cars/{id} [get]
func (ct *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid car id"})
	}
	car, err := ct.svc.Detail(c.Request().Context(), id)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, car)
}

// Create godoc
// @Summary      Add a car to the fleet
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body model.Car true "car payload"
// @Success      201 {object} model.Car
// @Security     BearerAuth
// @Router       /admin/cars [post]
func (ct *Controller) Create(c echo.Context) error {
	var car model.Car
	if err := c.Bind(&car); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	car.Available = true
	if err := ct.svc.Create(c.Request().Context(), &car); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusCreated, car)
}

// Update godoc
// @Summary      Update a car
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path int true "car id"
// @Param        body body model.Car true "car payload"
// @Success      200 {object} model.Car
// @Security     BearerAuth
// @Router       /admin/cars/{id} [put]
func (ct *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid car id"})
	}
	var car model.Car
	if err := c.Bind(&car); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	car.ID = id
	if err := ct.svc.Update(c.Request().Context(), &car); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, car)
}

// Delete godoc
// @Summary      Remove a car from the fleet
// @Tags         admin
// @Produce      json
// @Param        id path int true "car id"
// @Success      200 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /admin/cars/{id} [delete]
func (ct *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid car id"})
	}
	if err := ct.svc.Delete(c.Request().Context(), id); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
}
