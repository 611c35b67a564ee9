package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// memStore is an in-memory stand-in for the five relations
type memStore struct {
	mu sync.Mutex

	nextID   int64
	users    map[int64]models.User
	events   []models.LoginEvent
	students map[int64]models.Student
	exams    map[int64]models.ExamResult
	fees     map[int64]models.FeeEntry

	// failFeeCreate makes every fee insert fail, to exercise rollback
	failFeeCreate error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]models.User{},
		students: map[int64]models.Student{},
		exams:    map[int64]models.ExamResult{},
		fees:     map[int64]models.FeeEntry{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memSnapshot struct {
	users    map[int64]models.User
	events   []models.LoginEvent
	students map[int64]models.Student
	exams    map[int64]models.ExamResult
	fees     map[int64]models.FeeEntry
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		users:    cloneMap(m.users),
		events:   append([]models.LoginEvent(nil), m.events...),
		students: cloneMap(m.students),
		exams:    cloneMap(m.exams),
		fees:     cloneMap(m.fees),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users, m.events, m.students, m.exams, m.fees = s.users, s.events, s.students, s.exams, s.fees
}

func cloneMap[V any](in map[int64]V) map[int64]V {
	out := make(map[int64]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedIDs[V any](in map[int64]V) []int64 {
	ids := make([]int64, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memStore) aggregate() repositories.AggregateRepositories {
	return repositories.AggregateRepositories{
		Students: memStudents{m},
		Exams:    memExams{m},
		Fees:     memFees{m},
	}
}

// memTransactor runs fn on the store and restores the pre-call state when fn fails
type memTransactor struct {
	store *memStore
	calls int
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repositories.AggregateRepositories) error) error {
	t.calls++
	before := t.store.snapshot()
	if err := fn(ctx, t.store.aggregate()); err != nil {
		t.store.restore(before)
		return err
	}
	return nil
}

type memUsers struct{ *memStore }

func (m memUsers) find(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range sortedIDs(m.users) {
		if u := m.users[id]; match(u) {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m memUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.id()
	m.users[user.ID] = *user
	return nil
}

func (m memUsers) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.users[user.ID] = *user
	return nil
}

type memEvents struct{ *memStore }

func (m memEvents) Create(_ context.Context, event *models.LoginEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = m.id()
	m.events = append(m.events, *event)
	return nil
}

func (m memEvents) GetAll(context.Context) ([]*models.LoginEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.LoginEvent, 0, len(m.events))
	for i := range m.events {
		e := m.events[i]
		out = append(out, &e)
	}
	return out, nil
}

type memStudents struct{ *memStore }

func (m memStudents) Create(_ context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	student.ID = m.id()
	m.students[student.ID] = *student
	return nil
}

func (m memStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (m memStudents) GetAll(context.Context) ([]*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Student{}
	for _, id := range sortedIDs(m.students) {
		s := m.students[id]
		out = append(out, &s)
	}
	return out, nil
}

func (m memStudents) Update(_ context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.students[student.ID] = *student
	return nil
}

func (m memStudents) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, e := range m.exams {
		if e.StudentID == id {
			return errors.New("foreign key violation: exam_results")
		}
	}
	for _, f := range m.fees {
		if f.StudentID == id {
			return errors.New("foreign key violation: fee_entries")
		}
	}
	delete(m.students, id)
	return nil
}

type memExams struct{ *memStore }

func (m memExams) Create(_ context.Context, exam *models.ExamResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[exam.StudentID]; !ok {
		return repositories.ErrNotFound
	}
	exam.ID = m.id()
	m.exams[exam.ID] = *exam
	return nil
}

func (m memExams) GetByStudentID(_ context.Context, studentID int64) ([]*models.ExamResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.ExamResult{}
	for _, id := range sortedIDs(m.exams) {
		if e := m.exams[id]; e.StudentID == studentID {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (m memExams) DeleteByStudentID(_ context.Context, studentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.exams {
		if e.StudentID == studentID {
			delete(m.exams, id)
			n++
		}
	}
	return n, nil
}

type memFees struct{ *memStore }

func (m memFees) Create(_ context.Context, fee *models.FeeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFeeCreate != nil {
		return m.failFeeCreate
	}
	if _, ok := m.students[fee.StudentID]; !ok {
		return repositories.ErrNotFound
	}
	fee.ID = m.id()
	m.fees[fee.ID] = *fee
	return nil
}

func (m memFees) GetByStudentID(_ context.Context, studentID int64) ([]*models.FeeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.FeeEntry{}
	for _, id := range sortedIDs(m.fees) {
		if f := m.fees[id]; f.StudentID == studentID {
			out = append(out, &f)
		}
	}
	return out, nil
}

func (m memFees) DeleteByStudentID(_ context.Context, studentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, f := range m.fees {
		if f.StudentID == studentID {
			delete(m.fees, id)
			n++
		}
	}
	return n, nil
}
