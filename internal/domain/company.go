package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("resource not found")

// Company is the tenant boundary. Reports are scoped to exactly one company
// and are only visible to profiles of that company.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CompanyRepository interface {
	// GetOrCreate resolves a company by exact name, inserting it when absent.
	// The resolution must be atomic: two concurrent calls with the same new
	// name return the same row.
	GetOrCreate(ctx context.Context, name string) (*Company, error)
}
