package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// Fee amounts are stored as NUMERIC(12,2)
const feeAmountScale = 2

var maxFeeAmount = decimal.New(1, 10)

// StudentService reads and writes students together with their exam results and fee entries
type StudentService struct {
	repos      repositories.AggregateRepositories
	transactor repositories.Transactor
	logger     zerolog.Logger
}

// NewStudentService creates a new StudentService.
// repos serves reads; every mutation runs on repositories bound by transactor.
func NewStudentService(
	repos repositories.AggregateRepositories,
	transactor repositories.Transactor,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		repos:      repos,
		transactor: transactor,
		logger:     logger,
	}
}

// translateNotFound maps a repository miss onto the student not found error
func translateNotFound(err error, op string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrStudentNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ListStudents returns every student ordered by id
func (s *StudentService) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repos.Students.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		result = append(result, dto.NewStudentResponse(student))
	}
	return result, nil
}

// GetStudent returns a single student without children
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.repos.Students.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "error getting student")
	}
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// CreateStudent stores a student without children
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	student := &models.Student{Name: req.Name, Email: req.Email}
	if err := s.repos.Students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student created")
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// UpdateStudent rewrites name and email of a student, leaving its children untouched
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	student := &models.Student{ID: id, Name: req.Name, Email: req.Email}
	if err := s.repos.Students.Update(ctx, student); err != nil {
		return nil, translateNotFound(err, "error updating student")
	}

	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// DeleteStudent removes a student and all of its children
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	return s.DeleteFull(ctx, id)
}

// GetExams returns the exam results of a student
func (s *StudentService) GetExams(ctx context.Context, id int64) ([]dto.ExamDto, error) {
	if _, err := s.repos.Students.GetByID(ctx, id); err != nil {
		return nil, translateNotFound(err, "error getting student")
	}

	exams, err := s.repos.Exams.GetByStudentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting exam results: %w", err)
	}
	return examDtos(exams), nil
}

// GetFees returns the fee entries of a student
func (s *StudentService) GetFees(ctx context.Context, id int64) ([]dto.FeeDto, error) {
	if _, err := s.repos.Students.GetByID(ctx, id); err != nil {
		return nil, translateNotFound(err, "error getting student")
	}

	fees, err := s.repos.Fees.GetByStudentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting fee entries: %w", err)
	}
	return feeDtos(fees), nil
}

// GetFull returns a student with exactly the children currently stored for it
func (s *StudentService) GetFull(ctx context.Context, id int64) (*dto.StudentFullResponse, error) {
	return loadFull(ctx, s.repos, id)
}

// CreateFull stores a student and its children as one unit
func (s *StudentService) CreateFull(ctx context.Context, req *dto.StudentFullRequest) (*dto.StudentFullResponse, error) {
	if err := validateFull(req); err != nil {
		return nil, err
	}

	var resp *dto.StudentFullResponse
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context, repos repositories.AggregateRepositories) error {
		student := &models.Student{Name: req.Name, Email: req.Email}
		if err := repos.Students.Create(ctx, student); err != nil {
			return fmt.Errorf("error creating student: %w", err)
		}
		if err := insertChildren(ctx, repos, student.ID, req); err != nil {
			return err
		}

		var err error
		resp, err = loadFull(ctx, repos, student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", resp.ID).
		Int("exams", len(resp.Exams)).
		Int("fees", len(resp.Fees)).
		Msg("Student aggregate created")
	return resp, nil
}

// UpdateFull replaces a student's fields and its whole child set with the request's
func (s *StudentService) UpdateFull(ctx context.Context, id int64, req *dto.StudentFullRequest) (*dto.StudentFullResponse, error) {
	if err := validateFull(req); err != nil {
		return nil, err
	}

	var resp *dto.StudentFullResponse
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context, repos repositories.AggregateRepositories) error {
		student := &models.Student{ID: id, Name: req.Name, Email: req.Email}
		if err := repos.Students.Update(ctx, student); err != nil {
			return translateNotFound(err, "error updating student")
		}
		if err := deleteChildren(ctx, repos, id); err != nil {
			return err
		}
		if err := insertChildren(ctx, repos, id, req); err != nil {
			return err
		}

		var err error
		resp, err = loadFull(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student aggregate replaced")
	return resp, nil
}

// DeleteFull removes exam results, then fee entries, then the student
func (s *StudentService) DeleteFull(ctx context.Context, id int64) error {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context, repos repositories.AggregateRepositories) error {
		if _, err := repos.Students.GetByID(ctx, id); err != nil {
			return translateNotFound(err, "error getting student")
		}
		if err := deleteChildren(ctx, repos, id); err != nil {
			return err
		}
		if err := repos.Students.Delete(ctx, id); err != nil {
			return translateNotFound(err, "error deleting student")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student aggregate deleted")
	return nil
}

func validateFull(req *dto.StudentFullRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	for i, fee := range req.Fees {
		if fee.Amount == nil {
			continue
		}
		switch {
		case fee.Amount.IsNegative():
			return apperrors.NewValidationError(fmt.Sprintf("fees[%d].amount must not be negative", i))
		case !fee.Amount.Equal(fee.Amount.Truncate(feeAmountScale)):
			return apperrors.NewValidationError(fmt.Sprintf("fees[%d].amount must have at most %d decimal places", i, feeAmountScale))
		case fee.Amount.GreaterThanOrEqual(maxFeeAmount):
			return apperrors.NewValidationError(fmt.Sprintf("fees[%d].amount must be less than %s", i, maxFeeAmount))
		}
	}
	return nil
}

func loadFull(ctx context.Context, repos repositories.AggregateRepositories, id int64) (*dto.StudentFullResponse, error) {
	student, err := repos.Students.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "error getting student")
	}

	exams, err := repos.Exams.GetByStudentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting exam results: %w", err)
	}

	fees, err := repos.Fees.GetByStudentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting fee entries: %w", err)
	}

	return &dto.StudentFullResponse{
		ID:    student.ID,
		Name:  student.Name,
		Email: student.Email,
		Exams: examDtos(exams),
		Fees:  feeDtos(fees),
	}, nil
}

func insertChildren(ctx context.Context, repos repositories.AggregateRepositories, studentID int64, req *dto.StudentFullRequest) error {
	for _, exam := range req.Exams {
		if err := repos.Exams.Create(ctx, exam.ToModel(studentID)); err != nil {
			return fmt.Errorf("error creating exam result: %w", err)
		}
	}
	for _, fee := range req.Fees {
		if err := repos.Fees.Create(ctx, fee.ToModel(studentID)); err != nil {
			return fmt.Errorf("error creating fee entry: %w", err)
		}
	}
	return nil
}

func deleteChildren(ctx context.Context, repos repositories.AggregateRepositories, studentID int64) error {
	if _, err := repos.Exams.DeleteByStudentID(ctx, studentID); err != nil {
		return fmt.Errorf("error deleting exam results: %w", err)
	}
	if _, err := repos.Fees.DeleteByStudentID(ctx, studentID); err != nil {
		return fmt.Errorf("error deleting fee entries: %w", err)
	}
	return nil
}

func examDtos(exams []*models.ExamResult) []dto.ExamDto {
	result := make([]dto.ExamDto, 0, len(exams))
	for _, exam := range exams {
		result = append(result, dto.NewExamDto(exam))
	}
	return result
}

func feeDtos(fees []*models.FeeEntry) []dto.FeeDto {
	result := make([]dto.FeeDto, 0, len(fees))
	for _, fee := range fees {
		result = append(result, dto.NewFeeDto(fee))
	}
	return result
}
