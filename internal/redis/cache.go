package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"carrental/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// CarCacheTTL bounds how long a cached car can lag behind a write that
// failed to invalidate it.
const CarCacheTTL = 60 * time.Second

const carCachePrefix = "cache:car:"

// cachedCar is the JSON shape of a cached car.
type cachedCar struct {
	ID           int64     `json:"id"`
	Model        string    `json:"model"`
	Type         string    `json:"type"`
	PricePerDay  float64   `json:"price_per_day"`
	Available    bool      `json:"available"`
	Image        string    `json:"image"`
	Features     []string  `json:"features"`
	Year         *int      `json:"year,omitempty"`
	Color        *string   `json:"color,omitempty"`
	FuelType     *string   `json:"fuel_type,omitempty"`
	LicensePlate *string   `json:"license_plate,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func carKey(id int64) string {
	return carCachePrefix + strconv.FormatInt(id, 10)
}

// GetCar retrieves a car from cache. A miss returns nil, nil.
func (s *CacheStore) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	data, err := s.client.Get(ctx, carKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var c cachedCar
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	return &domain.Car{
		ID:           c.ID,
		Model:        c.Model,
		Type:         domain.CarType(c.Type),
		PricePerDay:  c.PricePerDay,
		Available:    c.Available,
		Image:        c.Image,
		Features:     c.Features,
		Year:         c.Year,
		Color:        c.Color,
		FuelType:     c.FuelType,
		LicensePlate: c.LicensePlate,
		CreatedAt:    c.CreatedAt,
	}, nil
}

// SetCar stores a car in cache.
func (s *CacheStore) SetCar(ctx context.Context, car *domain.Car) error {
	data, err := json.Marshal(cachedCar{
		ID:           car.ID,
		Model:        car.Model,
		Type:         string(car.Type),
		PricePerDay:  car.PricePerDay,
		Available:    car.Available,
		Image:        car.Image,
		Features:     car.Features,
		Year:         car.Year,
		Color:        car.Color,
		FuelType:     car.FuelType,
		LicensePlate: car.LicensePlate,
		CreatedAt:    car.CreatedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, carKey(car.ID), data, CarCacheTTL).Err()
}

// InvalidateCar removes a car from cache.
func (s *CacheStore) InvalidateCar(ctx context.Context, id int64) error {
	return s.client.Del(ctx, carKey(id)).Err()
}
