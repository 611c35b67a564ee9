package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/db"
)

// PgTransactor implements Transactor on a PostgreSQL pool
type PgTransactor struct {
	db *db.PostgresDB
}

// NewPgTransactor creates a new PgTransactor
func NewPgTransactor(database *db.PostgresDB) *PgTransactor {
	return &PgTransactor{db: database}
}

// WithinTransaction binds fresh aggregate repositories to a transaction and runs fn
func (t *PgTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos AggregateRepositories) error) error {
	return t.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, AggregateRepositories{
			Students: NewStudentRepository(tx),
			Exams:    NewExamResultRepository(tx),
			Fees:     NewFeeEntryRepository(tx),
		})
	})
}
