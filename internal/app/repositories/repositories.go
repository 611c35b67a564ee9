package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/studentrecords/internal/db"
)

// Repository level errors, translated by the services
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// psql is the statement builder shared by all repositories
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	LoginEventRepository *LoginEventRepository
	StudentRepository    *StudentRepository
	ExamResultRepository *ExamResultRepository
	FeeEntryRepository   *FeeEntryRepository
}

// NewRepositories initializes all repositories on the given handle
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(conn),
		LoginEventRepository: NewLoginEventRepository(conn),
		StudentRepository:    NewStudentRepository(conn),
		ExamResultRepository: NewExamResultRepository(conn),
		FeeEntryRepository:   NewFeeEntryRepository(conn),
	}
}

// Aggregate returns the student aggregate repositories of r
func (r *Repositories) Aggregate() AggregateRepositories {
	return AggregateRepositories{
		Students: r.StudentRepository,
		Exams:    r.ExamResultRepository,
		Fees:     r.FeeEntryRepository,
	}
}
