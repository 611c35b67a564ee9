package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.RegisterWithGin()
	os.Exit(m.Run())
}

type stubAuthService struct {
	loginErr  error
	signupErr error
	signups   []*dto.SignupRequest
	events    []*models.LoginEvent
}

func (s *stubAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.LoginResponse{Username: req.LoginID, Role: models.RoleAdmin, AccessToken: "tok", TokenType: "Bearer"}, nil
}

func (s *stubAuthService) Signup(_ context.Context, req *dto.SignupRequest) error {
	s.signups = append(s.signups, req)
	return s.signupErr
}

func (s *stubAuthService) ListLogins(context.Context) ([]*models.LoginEvent, error) {
	return s.events, nil
}

type stubStudentService struct {
	StudentService
	calls    int
	deleted  []int64
	full     *dto.StudentFullResponse
	fullReqs []*dto.StudentFullRequest
	err      error
}

func (s *stubStudentService) GetFull(_ context.Context, id int64) (*dto.StudentFullResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	full := *s.full
	full.ID = id
	return &full, nil
}

func (s *stubStudentService) CreateFull(_ context.Context, req *dto.StudentFullRequest) (*dto.StudentFullResponse, error) {
	s.calls++
	s.fullReqs = append(s.fullReqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.full, nil
}

func (s *stubStudentService) DeleteFull(_ context.Context, id int64) error {
	s.calls++
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubStudentService) DeleteStudent(ctx context.Context, id int64) error {
	return s.DeleteFull(ctx, id)
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func newAuthRouter(svc *stubAuthService) *gin.Engine {
	ctrl := NewAuthController(svc, zerolog.Nop())
	admin := NewAdminController(svc, zerolog.Nop())
	router := gin.New()
	router.POST("/login", ctrl.Login)
	router.POST("/signup", ctrl.Signup)
	router.GET("/logins", admin.GetLogins)
	return router
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"missing password", `{"loginId":"admin"}`, nil, http.StatusBadRequest, dto.ErrorCodeMissingFields},
		{"empty body", `{}`, nil, http.StatusBadRequest, dto.ErrorCodeMissingFields},
		{"unknown user", `{"loginId":"ghost","password":"x"}`, apperrors.ErrNoSuchUser, http.StatusNotFound, dto.ErrorCodeNoUser},
		{"wrong password", `{"loginId":"admin","password":"x"}`, apperrors.ErrWrongPassword, http.StatusUnauthorized, dto.ErrorCodeWrongPassword},
		{"disabled", `{"loginId":"admin","password":"x"}`, apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(newAuthRouter(&stubAuthService{loginErr: tt.err}), http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestAuthController_LoginSuccess(t *testing.T) {
	w := perform(newAuthRouter(&stubAuthService{}), http.MethodPost, "/login", `{"loginId":"admin","password":"admin123"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.Data.Username)
	assert.Equal(t, models.RoleAdmin, resp.Data.Role)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
}

func TestAuthController_Signup(t *testing.T) {
	svc := &stubAuthService{}
	w := perform(newAuthRouter(svc), http.MethodPost, "/signup", `{"name":"Ana","email":"ana@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.signups, 1)
	assert.Equal(t, "ana@x.com", svc.signups[0].Email)

	svc = &stubAuthService{signupErr: apperrors.ErrEmailAlreadyExists}
	w = perform(newAuthRouter(svc), http.MethodPost, "/signup", `{"name":"Ana","email":"ana@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeEmailExists, errorCode(t, w))

	svc = &stubAuthService{}
	w = perform(newAuthRouter(svc), http.MethodPost, "/signup", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeMissingFields, errorCode(t, w))
	assert.Empty(t, svc.signups)
}

func TestAdminController_GetLogins(t *testing.T) {
	at := time.Date(2024, 4, 20, 18, 0, 0, 0, time.UTC)
	svc := &stubAuthService{events: []*models.LoginEvent{{ID: 1, Username: "admin", LoginTime: at}}}

	w := perform(newAuthRouter(svc), http.MethodGet, "/logins", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []dto.LoginEventResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "admin", resp.Data[0].Username)
	assert.True(t, at.Equal(resp.Data[0].LoginTime))
}

func newStudentRouter(svc *stubStudentService) *gin.Engine {
	ctrl := NewStudentController(svc, zerolog.Nop())
	router := gin.New()
	router.GET("/students/:id/full", ctrl.GetFull)
	router.POST("/students/full", ctrl.CreateFull)
	router.DELETE("/students/:id", ctrl.DeleteStudent)
	router.DELETE("/students/:id/full", ctrl.DeleteFull)
	return router
}

func TestStudentController_InvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		svc := &stubStudentService{full: &dto.StudentFullResponse{}}
		w := perform(newStudentRouter(svc), http.MethodGet, "/students/"+id+"/full", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))
		assert.Zero(t, svc.calls)
	}
}

func TestStudentController_GetFull(t *testing.T) {
	svc := &stubStudentService{full: &dto.StudentFullResponse{Name: "Ana", Email: "ana@x.com", Exams: []dto.ExamDto{}, Fees: []dto.FeeDto{}}}

	w := perform(newStudentRouter(svc), http.MethodGet, "/students/7/full", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"name":"Ana","email":"ana@x.com","exams":[],"fees":[]}`, dataOf(t, w))

	svc.err = apperrors.ErrStudentNotFound
	w = perform(newStudentRouter(svc), http.MethodGet, "/students/7/full", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, errorCode(t, w))
}

func TestStudentController_CreateFull(t *testing.T) {
	svc := &stubStudentService{full: &dto.StudentFullResponse{ID: 1, Name: "Ana", Email: "ana@x.com"}}
	body := `{"name":"Ana","email":"ana@x.com","rollNo":"R1",
		"exams":[{"subject":"Math","marksObtained":80,"maxMarks":100,"examDate":"2024-05-01"}],
		"fees":[{"term":"T1","amount":500.5,"dueDate":"2024-06-30","paid":false}]}`

	w := perform(newStudentRouter(svc), http.MethodPost, "/students/full", body)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.fullReqs, 1)
	req := svc.fullReqs[0]
	require.Len(t, req.Exams, 1)
	assert.Equal(t, "2024-05-01", req.Exams[0].ExamDate.String())
	require.Len(t, req.Fees, 1)
	assert.Equal(t, "500.5", req.Fees[0].Amount.String())

	svc = &stubStudentService{full: &dto.StudentFullResponse{}}
	w = perform(newStudentRouter(svc), http.MethodPost, "/students/full", `{"email":"ana@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeMissingFields, errorCode(t, w))
	assert.Zero(t, svc.calls)
}

func TestStudentController_Delete(t *testing.T) {
	svc := &stubStudentService{}
	router := newStudentRouter(svc)

	w := perform(router, http.MethodDelete, "/students/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = perform(router, http.MethodDelete, "/students/4/full", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{3, 4}, svc.deleted)

	svc.err = apperrors.ErrStudentNotFound
	w = perform(router, http.MethodDelete, "/students/5/full", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return string(resp.Data)
}
