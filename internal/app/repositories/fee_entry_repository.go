package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

var _ IFeeEntryRepository = (*FeeEntryRepository)(nil)

// FeeEntryRepository handles fee entry database operations
type FeeEntryRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewFeeEntryRepository creates a new FeeEntryRepository
func NewFeeEntryRepository(conn db.DBTX) *FeeEntryRepository {
	return &FeeEntryRepository{db: conn, sb: psql}
}

// Create inserts a fee entry for fee.StudentID
func (r *FeeEntryRepository) Create(ctx context.Context, fee *models.FeeEntry) error {
	sql, args, err := r.sb.Insert("fee_entries").
		Columns("student_id", "term", "amount", "due_date", "paid").
		Values(
			fee.StudentID,
			fee.Term,
			squirrel.Expr("?::numeric", fee.Amount.String()),
			helpers.ToPgDate(fee.DueDate),
			fee.Paid,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create fee entry query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&fee.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("error creating fee entry: %w", err)
	}
	return nil
}

// GetByStudentID returns the fee entries of a student ordered by ID
func (r *FeeEntryRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.FeeEntry, error) {
	sql, args, err := r.sb.Select("id", "student_id", "term", "amount::text", "due_date", "paid").
		From("fee_entries").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get fee entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying fee entries: %w", err)
	}
	defer rows.Close()

	fees := []*models.FeeEntry{}
	for rows.Next() {
		fee := &models.FeeEntry{}
		var amount string
		var dueDate pgtype.Date
		if err := rows.Scan(&fee.ID, &fee.StudentID, &fee.Term, &amount, &dueDate, &fee.Paid); err != nil {
			return nil, fmt.Errorf("error scanning fee entry: %w", err)
		}
		if fee.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid stored fee amount %q: %w", amount, err)
		}
		fee.DueDate = helpers.FromPgDate(dueDate)
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee entries: %w", err)
	}
	return fees, nil
}

// DeleteByStudentID removes every fee entry of a student and returns the count removed
func (r *FeeEntryRepository) DeleteByStudentID(ctx context.Context, studentID int64) (int64, error) {
	sql, args, err := r.sb.Delete("fee_entries").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete fee entries query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting fee entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
