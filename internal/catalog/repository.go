package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/db"
)

var ErrPackageNotFound = errors.New("package not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) GetActivePackage(ctx context.Context, id int) (*Package, error) {
	query := `
		SELECT id, name, classes_per_week, price_cents, active
		FROM packages
		WHERE id = $1 AND active = true
	`

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("catalog.GetActivePackage", err)
	}

	return &pkg, nil
}

func (r *repository) GetPackage(ctx context.Context, id int) (*Package, error) {
	query := `
		SELECT id, name, classes_per_week, price_cents, active
		FROM packages
		WHERE id = $1
	`

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("catalog.GetPackage", err)
	}

	return &pkg, nil
}

func (r *repository) ListActivePackages(ctx context.Context) ([]Package, error) {
	query := `
		SELECT id, name, classes_per_week, price_cents, active
		FROM packages
		WHERE active = true
		ORDER BY price_cents
	`

	var packages []Package
	err := r.db.SelectContext(ctx, &packages, query)
	if err != nil {
		return nil, db.WrapStorage("catalog.ListActivePackages", err)
	}

	return packages, nil
}
