package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
)

var _ ILoginEventRepository = (*LoginEventRepository)(nil)

// LoginEventRepository handles the login log
type LoginEventRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewLoginEventRepository creates a new LoginEventRepository
func NewLoginEventRepository(conn db.DBTX) *LoginEventRepository {
	return &LoginEventRepository{db: conn, sb: psql}
}

// Create appends a login event
func (r *LoginEventRepository) Create(ctx context.Context, event *models.LoginEvent) error {
	sql, args, err := r.sb.Insert("login_events").
		Columns("username", "login_time").
		Values(event.Username, event.LoginTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create login event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&event.ID); err != nil {
		return fmt.Errorf("error recording login event: %w", err)
	}
	return nil
}

// GetAll returns every login event, oldest first
func (r *LoginEventRepository) GetAll(ctx context.Context) ([]*models.LoginEvent, error) {
	sql, args, err := r.sb.Select("id", "username", "login_time").
		From("login_events").
		OrderBy("login_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list login events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying login events: %w", err)
	}
	defer rows.Close()

	events := []*models.LoginEvent{}
	for rows.Next() {
		event := &models.LoginEvent{}
		if err := rows.Scan(&event.ID, &event.Username, &event.LoginTime); err != nil {
			return nil, fmt.Errorf("error scanning login event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login events: %w", err)
	}
	return events, nil
}
