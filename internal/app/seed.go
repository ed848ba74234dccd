package app

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"carrental/internal/domain"
	"carrental/internal/repository/postgres"
)

//go:embed seed_cars.yaml
var seedCarsYAML []byte

type seedFile struct {
	Cars []seedCar `yaml:"cars"`
}

type seedCar struct {
	Model        string   `yaml:"model"`
	Type         string   `yaml:"type"`
	PricePerDay  float64  `yaml:"price_per_day"`
	Available    *bool    `yaml:"available"`
	Image        string   `yaml:"image"`
	Features     []string `yaml:"features"`
	Year         *int     `yaml:"year"`
	Color        *string  `yaml:"color"`
	FuelType     *string  `yaml:"fuel_type"`
	LicensePlate *string  `yaml:"license_plate"`
}

func (s seedCar) toDomain() (*domain.Car, error) {
	car := &domain.Car{
		Model:        s.Model,
		Type:         domain.CarType(s.Type),
		PricePerDay:  s.PricePerDay,
		Available:    true,
		Image:        s.Image,
		Features:     s.Features,
		Year:         s.Year,
		Color:        s.Color,
		FuelType:     s.FuelType,
		LicensePlate: s.LicensePlate,
	}
	if s.Available != nil {
		car.Available = *s.Available
	}
	if car.Image == "" {
		car.Image = domain.DefaultCarImage
	}
	if car.Model == "" || !car.Type.Valid() || car.PricePerDay <= 0 {
		return nil, fmt.Errorf("invalid seed car %q", s.Model)
	}
	return car, nil
}

// loadSeedCars decodes the embedded sample fleet.
func loadSeedCars(data []byte) ([]*domain.Car, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed cars: %w", err)
	}

	cars := make([]*domain.Car, 0, len(f.Cars))
	for _, s := range f.Cars {
		car, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, nil
}

// SeedSampleData inserts the sample fleet when the cars table is empty.
func SeedSampleData(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&count); err != nil {
		return fmt.Errorf("count cars: %w", err)
	}
	if count > 0 {
		return nil
	}

	cars, err := loadSeedCars(seedCarsYAML)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	repo := postgres.NewCarRepositoryWithTx(tx)
	for _, car := range cars {
		if err := repo.Create(ctx, car); err != nil {
			return fmt.Errorf("seed car %s: %w", car.Model, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int("cars", len(cars)).Msg("sample fleet inserted")
	return nil
}
