package domain

import (
	"context"
	"errors"
	"time"
)

// Package is a priced gym service (training course, camp, private session).
type Package struct {
	ID        string    `json:"id"`
	GymID     string    `json:"gymId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

var ErrPackageNotFound = errors.New("package not found")

type PackageRepository interface {
	GetPackageByID(ctx context.Context, id string) (*Package, error)
}
