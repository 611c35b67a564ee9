package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func newTestStudentService(store *memStore) (*StudentService, *memTransactor) {
	tx := &memTransactor{store: store}
	return NewStudentService(store.aggregate(), tx, zerolog.Nop()), tx
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func boolPtr(b bool) *bool { return &b }

func anaRequest() *dto.StudentFullRequest {
	return &dto.StudentFullRequest{
		Name:  "Ana",
		Email: "ana@x.com",
		Exams: []dto.ExamDto{{Subject: "Math", MarksObtained: 80, MaxMarks: 100}},
		Fees:  []dto.FeeDto{{Term: "T1", Amount: amount("500"), Paid: boolPtr(false)}},
	}
}

func TestStudentAggregate_AnaScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestStudentService(store)

	created, err := svc.CreateFull(ctx, anaRequest())
	require.NoError(t, err)

	full, err := svc.GetFull(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", full.Name)
	assert.Equal(t, "ana@x.com", full.Email)
	require.Len(t, full.Exams, 1)
	assert.Equal(t, "Math", full.Exams[0].Subject)
	assert.Equal(t, 80, full.Exams[0].MarksObtained)
	assert.Equal(t, 100, full.Exams[0].MaxMarks)
	require.Len(t, full.Fees, 1)
	assert.Equal(t, "T1", full.Fees[0].Term)
	assert.True(t, full.Fees[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.False(t, *full.Fees[0].Paid)

	update := anaRequest()
	update.Exams = []dto.ExamDto{}
	_, err = svc.UpdateFull(ctx, created.ID, update)
	require.NoError(t, err)

	full, err = svc.GetFull(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, full.Exams)
	assert.Len(t, full.Fees, 1)
}

func TestUpdateFull_ReplacesChildSet(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestStudentService(store)

	created, err := svc.CreateFull(ctx, anaRequest())
	require.NoError(t, err)

	update := &dto.StudentFullRequest{
		Name:  "Ana Maria",
		Email: "ana@x.com",
		Exams: []dto.ExamDto{
			{ID: created.Exams[0].ID, Subject: "Physics", MarksObtained: 70, MaxMarks: 100},
			{Subject: "Chemistry", MarksObtained: 60, MaxMarks: 100},
		},
		Fees: []dto.FeeDto{{Term: "T2", Amount: amount("250.75")}},
	}
	resp, err := svc.UpdateFull(ctx, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Ana Maria", resp.Name)
	subjects := []string{}
	for _, e := range resp.Exams {
		subjects = append(subjects, e.Subject)
	}
	assert.ElementsMatch(t, []string{"Physics", "Chemistry"}, subjects)
	require.Len(t, resp.Fees, 1)
	assert.Equal(t, "T2", resp.Fees[0].Term)
	assert.Equal(t, "250.75", resp.Fees[0].Amount.String())
	assert.False(t, *resp.Fees[0].Paid, "a missing paid flag is stored as false")
	assert.Len(t, store.exams, 2, "no rows from before the replace survive")
	assert.Len(t, store.fees, 1)
}

func TestCreateFull_MissingAmountDefaultsToZero(t *testing.T) {
	svc, _ := newTestStudentService(newMemStore())

	resp, err := svc.CreateFull(context.Background(), &dto.StudentFullRequest{
		Name:  "Ana",
		Email: "ana@x.com",
		Fees:  []dto.FeeDto{{Term: "T1"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Fees, 1)
	assert.True(t, resp.Fees[0].Amount.IsZero())
	assert.Empty(t, resp.Exams)
}

func TestCreateFull_NegativeAmount(t *testing.T) {
	store := newMemStore()
	svc, tx := newTestStudentService(store)

	req := anaRequest()
	req.Fees[0].Amount = amount("-1")
	_, err := svc.CreateFull(context.Background(), req)

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Zero(t, tx.calls)
	assert.Empty(t, store.students)
}

func TestCreateFull_AmountOutOfRange(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"500.125", false},
		{"0.001", false},
		{"10000000000", false},
		{"10000000000.00", false},
		{"500.10", true},
		{"500.100", true},
		{"9999999999.99", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			store := newMemStore()
			svc, _ := newTestStudentService(store)

			req := anaRequest()
			req.Fees[0].Amount = amount(tt.amount)
			full, err := svc.CreateFull(context.Background(), req)

			if !tt.valid {
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
				assert.Empty(t, store.students)
				return
			}
			require.NoError(t, err)
			require.Len(t, full.Fees, 1)
			assert.True(t, amount(tt.amount).Equal(*full.Fees[0].Amount))
		})
	}
}

func TestCreateFull_MissingName(t *testing.T) {
	svc, _ := newTestStudentService(newMemStore())

	_, err := svc.CreateFull(context.Background(), &dto.StudentFullRequest{Email: "ana@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}

func TestCreateFull_RollsBackOnChildFailure(t *testing.T) {
	store := newMemStore()
	store.failFeeCreate = errors.New("disk full")
	svc, _ := newTestStudentService(store)

	_, err := svc.CreateFull(context.Background(), anaRequest())

	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, store.students)
	assert.Empty(t, store.exams)
	assert.Empty(t, store.fees)
}

func TestUpdateFull_RollsBackOnChildFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestStudentService(store)

	created, err := svc.CreateFull(ctx, anaRequest())
	require.NoError(t, err)

	store.failFeeCreate = errors.New("disk full")
	update := anaRequest()
	update.Name = "Changed"
	update.Exams = nil
	_, err = svc.UpdateFull(ctx, created.ID, update)
	require.Error(t, err)

	store.failFeeCreate = nil
	full, err := svc.GetFull(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", full.Name)
	assert.Len(t, full.Exams, 1)
	assert.Len(t, full.Fees, 1)
}

func TestUpdateFull_NotFound(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestStudentService(store)

	_, err := svc.UpdateFull(context.Background(), 404, anaRequest())

	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Empty(t, store.exams)
	assert.Empty(t, store.fees)
}

func TestDeleteFull_RemovesChildren(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestStudentService(store)

	ana, err := svc.CreateFull(ctx, anaRequest())
	require.NoError(t, err)
	other := anaRequest()
	other.Name = "Bob"
	bob, err := svc.CreateFull(ctx, other)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFull(ctx, ana.ID))

	_, err = svc.GetExams(ctx, ana.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	_, err = svc.GetFees(ctx, ana.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	_, err = svc.GetFull(ctx, ana.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	for _, e := range store.exams {
		assert.NotEqual(t, ana.ID, e.StudentID)
	}
	for _, f := range store.fees {
		assert.NotEqual(t, ana.ID, f.StudentID)
	}

	exams, err := svc.GetExams(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, exams, 1)
}

func TestDeleteFull_NotFound(t *testing.T) {
	svc, _ := newTestStudentService(newMemStore())

	err := svc.DeleteFull(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestBasicStudentOperations(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestStudentService(store)

	created, err := svc.CreateStudent(ctx, &dto.StudentRequest{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	got, err := svc.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	updated, err := svc.UpdateStudent(ctx, created.ID, &dto.StudentRequest{Name: "Ana B", Email: "anab@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", updated.Name)

	_, err = svc.UpdateStudent(ctx, 999, &dto.StudentRequest{Name: "X", Email: "x@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	list, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "anab@x.com", list[0].Email)

	exams, err := svc.GetExams(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, exams)

	require.NoError(t, svc.DeleteStudent(ctx, created.ID))
	_, err = svc.GetStudent(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpdateStudent_KeepsChildren(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStudentService(newMemStore())

	created, err := svc.CreateFull(ctx, anaRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStudent(ctx, created.ID, &dto.StudentRequest{Name: "Ana", Email: "new@x.com"})
	require.NoError(t, err)

	full, err := svc.GetFull(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", full.Email)
	assert.Len(t, full.Exams, 1)
	assert.Len(t, full.Fees, 1)
}
