package catalog

// Package is a reference catalog entry. The booking and subscription
// components only ever read it; staff maintain the catalog out of band.
type Package struct {
	ID             int    `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	ClassesPerWeek int    `db:"classes_per_week" json:"classes_per_week"`
	PriceCents     int64  `db:"price_cents" json:"price_cents"`
	Active         bool   `db:"active" json:"active"`
}
