package carsvc

import (
	"context"

	"github.com/PragyeNawani/wheelify/model"
	carrepo "github.com/PragyeNawani/wheelify/repository/car"
	"github.com/PragyeNawani/wheelify/util/apperr"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, f carrepo.Filter) ([]model.Car, error)
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	List(ctx context.Context, f carrepo.Filter) ([]model.Car, error)
	Detail(ctx context.Context, id int64) (*model.Car, error)
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, f carrepo.Filter) ([]model.Car, error) {
	return s.r.List(ctx, f)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Car, error) {
	c, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.CodeNotFound, "car not found")
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, c *model.Car) error {
	if c.Name == "" || c.Brand == "" || c.PricePerDay <= 0 {
		return apperr.New(apperr.CodeValidation, "invalid payload")
	}
	return s.r.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, c *model.Car) error {
	if c.PricePerDay <= 0 {
		return apperr.New(apperr.CodeValidation, "invalid payload")
	}
	return s.r.Update(ctx, c)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.r.Delete(ctx, id)
}
