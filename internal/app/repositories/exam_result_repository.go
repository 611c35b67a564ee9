package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

var _ IExamResultRepository = (*ExamResultRepository)(nil)

// ExamResultRepository handles exam result database operations
type ExamResultRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewExamResultRepository creates a new ExamResultRepository
func NewExamResultRepository(conn db.DBTX) *ExamResultRepository {
	return &ExamResultRepository{db: conn, sb: psql}
}

// Create inserts an exam result for exam.StudentID
func (r *ExamResultRepository) Create(ctx context.Context, exam *models.ExamResult) error {
	sql, args, err := r.sb.Insert("exam_results").
		Columns("student_id", "subject", "marks_obtained", "max_marks", "exam_date").
		Values(exam.StudentID, exam.Subject, exam.MarksObtained, exam.MaxMarks, helpers.ToPgDate(exam.ExamDate)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create exam result query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exam.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("error creating exam result: %w", err)
	}
	return nil
}

// GetByStudentID returns the exam results of a student ordered by ID
func (r *ExamResultRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.ExamResult, error) {
	sql, args, err := r.sb.Select("id", "student_id", "subject", "marks_obtained", "max_marks", "exam_date").
		From("exam_results").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get exam results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying exam results: %w", err)
	}
	defer rows.Close()

	exams := []*models.ExamResult{}
	for rows.Next() {
		exam := &models.ExamResult{}
		var examDate pgtype.Date
		if err := rows.Scan(&exam.ID, &exam.StudentID, &exam.Subject, &exam.MarksObtained, &exam.MaxMarks, &examDate); err != nil {
			return nil, fmt.Errorf("error scanning exam result: %w", err)
		}
		exam.ExamDate = helpers.FromPgDate(examDate)
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exam results: %w", err)
	}
	return exams, nil
}

// DeleteByStudentID removes every exam result of a student and returns the count removed
func (r *ExamResultRepository) DeleteByStudentID(ctx context.Context, studentID int64) (int64, error) {
	sql, args, err := r.sb.Delete("exam_results").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete exam results query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting exam results: %w", err)
	}
	return tag.RowsAffected(), nil
}
