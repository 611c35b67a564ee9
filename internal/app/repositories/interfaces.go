package repositories

import (
	"context"

	"github.com/yigit/studentrecords/internal/app/models"
)

// IUserRepository defines the credential store operations
type IUserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// ILoginEventRepository defines the append-only login log
type ILoginEventRepository interface {
	Create(ctx context.Context, event *models.LoginEvent) error
	GetAll(ctx context.Context) ([]*models.LoginEvent, error)
}

// IStudentRepository defines student row operations
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// IExamResultRepository defines exam result operations keyed by student
type IExamResultRepository interface {
	Create(ctx context.Context, exam *models.ExamResult) error
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.ExamResult, error)
	DeleteByStudentID(ctx context.Context, studentID int64) (int64, error)
}

// IFeeEntryRepository defines fee entry operations keyed by student
type IFeeEntryRepository interface {
	Create(ctx context.Context, fee *models.FeeEntry) error
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.FeeEntry, error)
	DeleteByStudentID(ctx context.Context, studentID int64) (int64, error)
}

// AggregateRepositories groups the three relations that make up a student aggregate
type AggregateRepositories struct {
	Students IStudentRepository
	Exams    IExamResultRepository
	Fees     IFeeEntryRepository
}

// Transactor runs fn against aggregate repositories bound to a single transaction.
// fn returning an error rolls back every write it made.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos AggregateRepositories) error) error
}
