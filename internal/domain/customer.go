package domain

import (
	"strings"
	"time"
)

// Customer represents a person who rents cars. Email is the natural key.
type Customer struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	LicenseNumber string
	CreatedAt     time.Time
}

// NormalizeEmail trims and lower-cases an email address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
