package helpers

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/studentrecords/internal/app/models"
)

// ToPgDate converts an optional calendar date to pgtype.Date.
// A nil or zero date is stored as NULL.
func ToPgDate(d *models.Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

// FromPgDate converts a scanned pgtype.Date back to an optional calendar date
func FromPgDate(d pgtype.Date) *models.Date {
	if !d.Valid {
		return nil
	}
	date := models.NewDate(d.Time)
	return &date
}
