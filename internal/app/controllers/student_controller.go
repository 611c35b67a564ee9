package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/middleware"
)

// StudentService is the student aggregate surface used by StudentController
type StudentService interface {
	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
	GetStudent(ctx context.Context, id int64) (*dto.StudentResponse, error)
	CreateStudent(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id int64) error
	GetExams(ctx context.Context, id int64) ([]dto.ExamDto, error)
	GetFees(ctx context.Context, id int64) ([]dto.FeeDto, error)
	GetFull(ctx context.Context, id int64) (*dto.StudentFullResponse, error)
	CreateFull(ctx context.Context, req *dto.StudentFullRequest) (*dto.StudentFullResponse, error)
	UpdateFull(ctx context.Context, id int64, req *dto.StudentFullRequest) (*dto.StudentFullResponse, error)
	DeleteFull(ctx context.Context, id int64) error
}

// StudentController handles student and student aggregate endpoints
type StudentController struct {
	studentService StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// parseStudentID reads the :id path parameter, answering 400 when it is not a positive integer
func parseStudentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID").
			WithDetails("Student ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// GetAllStudents lists students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse} "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudent returns one student without children
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// CreateStudent creates a student without children
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// UpdateStudent rewrites name and email of a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.StudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// DeleteStudent removes a student with all of its children
// @Summary Delete a student
// @Tags students
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 204 "Student deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetExams lists the exam results of a student
// @Summary List exam results of a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamDto} "Exam results"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/exams [get]
func (c *StudentController) GetExams(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	exams, err := c.studentService.GetExams(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exams))
}

// GetFees lists the fee entries of a student
// @Summary List fee entries of a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.FeeDto} "Fee entries"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/fees [get]
func (c *StudentController) GetFees(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	fees, err := c.studentService.GetFees(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fees))
}

// GetFull returns a student with its exam results and fee entries
// @Summary Get a full student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.StudentFullResponse} "Full student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/full [get]
func (c *StudentController) GetFull(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	full, err := c.studentService.GetFull(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(full))
}

// CreateFull creates a student together with its children
// @Summary Create a full student
// @Description Stores the student, its exam results and its fee entries atomically
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param request body dto.StudentFullRequest true "Student with children"
// @Success 201 {object} dto.APIResponse{data=dto.StudentFullResponse} "Full student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Router /students/full [post]
func (c *StudentController) CreateFull(ctx *gin.Context) {
	var req dto.StudentFullRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	full, err := c.studentService.CreateFull(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(full))
}

// UpdateFull replaces a student and its whole child set
// @Summary Replace a full student
// @Description Updates name and email and replaces every exam result and fee entry with the request's, atomically
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.StudentFullRequest true "Student with children"
// @Success 200 {object} dto.APIResponse{data=dto.StudentFullResponse} "Full student replaced"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/full [put]
func (c *StudentController) UpdateFull(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	var req dto.StudentFullRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	full, err := c.studentService.UpdateFull(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(full))
}

// DeleteFull removes a student with all of its children
// @Summary Delete a full student
// @Tags students
// @Security BearerAuth
// @Security BasicAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 204 "Student deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/full [delete]
func (c *StudentController) DeleteFull(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	if err := c.studentService.DeleteFull(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
