package driversvc

import (
	"context"

	"github.com/PragyeNawani/wheelify/model"
	"github.com/PragyeNawani/wheelify/util/apperr"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Driver, error)
	List(ctx context.Context, onlyAvailable bool) ([]model.Driver, error)
	Create(ctx context.Context, d *model.Driver) error
	Update(ctx context.Context, d *model.Driver) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	List(ctx context.Context, onlyAvailable bool) ([]model.Driver, error)
	Detail(ctx context.Context, id int64) (*model.Driver, error)
	Create(ctx context.Context, d *model.Driver) error
	Update(ctx context.Context, d *model.Driver) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, onlyAvailable bool) ([]model.Driver, error) {
	return s.r.List(ctx, onlyAvailable)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Driver, error) {
	d, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.New(apperr.CodeNotFound, "driver not found")
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, d *model.Driver) error {
	if d.Name == "" || d.Email == "" || d.LicenceNumber == "" || d.SalaryAmount < 0 {
		return apperr.New(apperr.CodeValidation, "invalid payload")
	}
	if d.Status == "" {
		d.Status = model.DriverActive
	}
	if d.SalaryCurrency == "" {
		d.SalaryCurrency = "INR"
	}
	if d.PaymentFrequency == "" {
		d.PaymentFrequency = model.FrequencyMonthly
	}
	return s.r.Create(ctx, d)
}

func (s *service) Update(ctx context.Context, d *model.Driver) error {
	return s.r.Update(ctx, d)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.r.Delete(ctx, id)
}
