package store

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/store"
)

// TransactionScope runs a function inside one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the store repositories bound to one transaction
type TransactionalRepositories interface {
	Products() store.ProductRepository
	Carts() store.CartRepository
	Orders() store.OrderRepository
}
