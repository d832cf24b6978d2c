package bootstrap

import "context"

// Storage is the shared state handed to service providers. The gift bot
// passes its in-memory application registry here.
type Storage interface{}

// ServiceProvider builds the application services of type T.
type ServiceProvider[T any] interface {
	Provide(ctx context.Context, cfg interface{}, storage Storage) (T, error)
}

// ProviderFunc adapts a plain constructor to ServiceProvider.
type ProviderFunc[T any] func(ctx context.Context, cfg interface{}, storage Storage) (T, error)

// Provide calls f.
func (f ProviderFunc[T]) Provide(ctx context.Context, cfg interface{}, storage Storage) (T, error) {
	return f(ctx, cfg, storage)
}
