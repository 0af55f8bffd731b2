package driverrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PragyeNawani/wheelify/model"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Driver, error)
	List(ctx context.Context, onlyAvailable bool) ([]model.Driver, error)

	Create(ctx context.Context, d *model.Driver) error
	Update(ctx context.Context, d *model.Driver) error
	Delete(ctx context.Context, id int64) error

	// AssignIfAvailable marks the driver hired (status inactive, car
	// assigned) only if the driver is currently active and unassigned.
	// carID may be nil for standalone hires without a vehicle.
	AssignIfAvailable(ctx context.Context, driverID int64, carID *int64) (bool, error)
	Unassign(ctx context.Context, driverID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const driverCols = `id, name, email, contact_number, licence_number, licence_type,
	licence_issue_date, licence_expiry_date, salary_amount, salary_currency,
	payment_frequency, assigned_car_id, status, experience, created_at`

func scanDriver(row interface{ Scan(...any) error }) (*model.Driver, error) {
	var d model.Driver
	err := row.Scan(
		&d.ID, &d.Name, &d.Email, &d.ContactNumber, &d.LicenceNumber, &d.LicenceType,
		&d.LicenceIssue, &d.LicenceExpiry, &d.SalaryAmount, &d.SalaryCurrency,
		&d.PaymentFrequency, &d.AssignedCarID, &d.Status, &d.Experience, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Driver, error) {
	const q = `
		SELECT ` + driverCols + `
		FROM drivers
		WHERE id = $1`
	d, err := scanDriver(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *repo) List(ctx context.Context, onlyAvailable bool) ([]model.Driver, error) {
	const q = `
		SELECT ` + driverCols + `
		FROM drivers
		WHERE NOT $1 OR (status = 'active' AND assigned_car_id IS NULL)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, onlyAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *repo) Create(ctx context.Context, d *model.Driver) error {
	const q = `
		INSERT INTO drivers (name, email, contact_number, licence_number, licence_type,
			licence_issue_date, licence_expiry_date, salary_amount, salary_currency,
			payment_frequency, status, experience)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		d.Name, d.Email, d.ContactNumber, d.LicenceNumber, d.LicenceType,
		d.LicenceIssue, d.LicenceExpiry, d.SalaryAmount, d.SalaryCurrency,
		d.PaymentFrequency, d.Status, d.Experience,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *repo) Update(ctx context.Context, d *model.Driver) error {
	const q = `
		UPDATE drivers
		SET name = $2, email = $3, contact_number = $4, licence_number = $5,
			licence_type = $6, licence_issue_date = $7, licence_expiry_date = $8,
			salary_amount = $9, salary_currency = $10, payment_frequency = $11,
			status = $12, experience = $13
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		d.ID, d.Name, d.Email, d.ContactNumber, d.LicenceNumber, d.LicenceType,
		d.LicenceIssue, d.LicenceExpiry, d.SalaryAmount, d.SalaryCurrency,
		d.PaymentFrequency, d.Status, d.Experience,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) AssignIfAvailable(ctx context.Context, driverID int64, carID *int64) (bool, error) {
	const q = `
		UPDATE drivers
		SET status = 'inactive',
			assigned_car_id = $2
		WHERE id = $1
		  AND status = 'active'
		  AND assigned_car_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, driverID, carID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) Unassign(ctx context.Context, driverID int64) error {
	const q = `
		UPDATE drivers
		SET status = 'active',
			assigned_car_id = NULL
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, driverID)
	return err
}
