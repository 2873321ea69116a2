package postgres

import (
	"github.com/gaze-network/ledger-scanner/internal/postgres"
	"github.com/gaze-network/ledger-scanner/modules/history/repository/postgres/gen"
)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}
