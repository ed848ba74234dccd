package redis

import (
	"context"
	"time"

	"carrental/internal/domain"
)

// CarCacheInterface defines the interface for car caching.
type CarCacheInterface interface {
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	SetCar(ctx context.Context, car *domain.Car) error
	InvalidateCar(ctx context.Context, id int64) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireCarLock(ctx context.Context, carID int64, ttl time.Duration) (string, error)
	ReleaseCarLock(ctx context.Context, carID int64, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ CarCacheInterface  = (*CacheStore)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
