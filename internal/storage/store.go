// Package storage provides abstractions over where a house and its ledger
// are read from.
package storage

import (
	"context"

	"github.com/mmynk/housesplit/internal/models"
)

// Source defines the interface for reading ledger input.
// This abstraction allows swapping input backends (YAML files, SQLite, etc.)
// without changing the service layer.
type Source interface {
	// House returns the house the ledger belongs to, with its full roster.
	House(ctx context.Context) (models.House, error)

	// Entries returns the ledger entries in input order.
	Entries(ctx context.Context) ([]models.Entry, error)

	// Close releases any resources held by the source.
	Close() error
}
