package carrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/PragyeNawani/wheelify/model"
)

type Filter struct {
	Category      string
	Location      string
	AvailableOnly bool
}

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, f Filter) ([]model.Car, error)

	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error

	// ReserveIfAvailable flips available to false only if it is currently
	// true. The reported bool is whether this call won the reservation.
	ReserveIfAvailable(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const carCols = `id, name, brand, model, year, price_per_day, category, transmission,
	fuel_type, seats, images, features, location, description, available, created_at`

func scanCar(row interface{ Scan(...any) error }) (*model.Car, error) {
	var (
		c             model.Car
		images, feats []byte
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Brand, &c.Model, &c.Year, &c.PricePerDay, &c.Category,
		&c.Transmission, &c.FuelType, &c.Seats, &images, &feats, &c.Location,
		&c.Description, &c.Available, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &c.Images); err != nil {
			return nil, err
		}
	}
	if len(feats) > 0 {
		if err := json.Unmarshal(feats, &c.Features); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	const q = `
		SELECT ` + carCols + `
		FROM cars
		WHERE id = $1`
	c, err := scanCar(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.Car, error) {
	const q = `
		SELECT ` + carCols + `
		FROM cars
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR location = $2)
		  AND (NOT $3 OR available)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, f.Category, f.Location, f.AvailableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repo) Create(ctx context.Context, c *model.Car) error {
	images, err := json.Marshal(c.Images)
	if err != nil {
		return err
	}
	feats, err := json.Marshal(c.Features)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO cars (name, brand, model, year, price_per_day, category, transmission,
			fuel_type, seats, images, features, location, description, available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		c.Name, c.Brand, c.Model, c.Year, c.PricePerDay, c.Category, c.Transmission,
		c.FuelType, c.Seats, images, feats, c.Location, c.Description, c.Available,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repo) Update(ctx context.Context, c *model.Car) error {
	images, err := json.Marshal(c.Images)
	if err != nil {
		return err
	}
	feats, err := json.Marshal(c.Features)
	if err != nil {
		return err
	}
	const q = `
		UPDATE cars
		SET name = $2, brand = $3, model = $4, year = $5, price_per_day = $6,
			category = $7, transmission = $8, fuel_type = $9, seats = $10,
			images = $11, features = $12, location = $13, description = $14,
			available = $15
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		c.ID, c.Name, c.Brand, c.Model, c.Year, c.PricePerDay, c.Category,
		c.Transmission, c.FuelType, c.Seats, images, feats, c.Location,
		c.Description, c.Available,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ReserveIfAvailable(ctx context.Context, id int64) (bool, error) {
	// Availability flip is part of the same conditional write that reserves
	// the car, so two concurrent bookings cannot both win.
	const q = `
		UPDATE cars
		SET available = false
		WHERE id = $1
		  AND available = true`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) Release(ctx context.Context, id int64) error {
	const q = `
		UPDATE cars
		SET available = true
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
