package catalog

import "context"

type Repository interface {
	GetActivePackage(ctx context.Context, id int) (*Package, error)
	GetPackage(ctx context.Context, id int) (*Package, error)
	ListActivePackages(ctx context.Context) ([]Package, error)
}
