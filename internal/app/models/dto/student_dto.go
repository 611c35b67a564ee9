package dto

import (
	"github.com/shopspring/decimal"
	"github.com/yigit/studentrecords/internal/app/models"
)

// StudentRequest represents the basic student fields
type StudentRequest struct {
	Name  string `json:"name" binding:"required" example:"Ana"`
	Email string `json:"email" binding:"required" example:"ana@x.com"`
}

// StudentResponse represents a student without children
type StudentResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Ana"`
	Email string `json:"email" example:"ana@x.com"`
}

// ExamDto is an exam result inside a full student payload
type ExamDto struct {
	ID            int64        `json:"id,omitempty"`
	Subject       string       `json:"subject" example:"Math"`
	MarksObtained int          `json:"marksObtained" example:"80"`
	MaxMarks      int          `json:"maxMarks" example:"100"`
	ExamDate      *models.Date `json:"examDate,omitempty" swaggertype:"string" example:"2024-05-01"`
}

// FeeDto is a fee entry inside a full student payload.
// A missing amount is stored as 0 and a missing paid flag as false.
type FeeDto struct {
	ID      int64            `json:"id,omitempty"`
	Term    string           `json:"term" example:"T1"`
	Amount  *decimal.Decimal `json:"amount" swaggertype:"number" example:"500"`
	DueDate *models.Date     `json:"dueDate,omitempty" swaggertype:"string" example:"2024-06-30"`
	Paid    *bool            `json:"paid" example:"false"`
}

// StudentFullRequest represents a student together with its complete child set.
// RollNo, Department and Dob are accepted for client compatibility and not stored.
type StudentFullRequest struct {
	Name       string       `json:"name" binding:"required" example:"Ana"`
	Email      string       `json:"email" binding:"required" example:"ana@x.com"`
	RollNo     string       `json:"rollNo,omitempty"`
	Department string       `json:"department,omitempty"`
	Dob        *models.Date `json:"dob,omitempty" swaggertype:"string"`
	Exams      []ExamDto    `json:"exams"`
	Fees       []FeeDto     `json:"fees"`
}

// StudentFullResponse represents a student with its stored exam results and fee entries
type StudentFullResponse struct {
	ID    int64     `json:"id" example:"1"`
	Name  string    `json:"name" example:"Ana"`
	Email string    `json:"email" example:"ana@x.com"`
	Exams []ExamDto `json:"exams"`
	Fees  []FeeDto  `json:"fees"`
}

// NewStudentResponse maps a student onto its response
func NewStudentResponse(student *models.Student) StudentResponse {
	return StudentResponse{
		ID:    student.ID,
		Name:  student.Name,
		Email: student.Email,
	}
}

// NewExamDto maps a stored exam result onto its payload form
func NewExamDto(exam *models.ExamResult) ExamDto {
	return ExamDto{
		ID:            exam.ID,
		Subject:       exam.Subject,
		MarksObtained: exam.MarksObtained,
		MaxMarks:      exam.MaxMarks,
		ExamDate:      exam.ExamDate,
	}
}

// NewFeeDto maps a stored fee entry onto its payload form
func NewFeeDto(fee *models.FeeEntry) FeeDto {
	amount := fee.Amount
	paid := fee.Paid
	return FeeDto{
		ID:      fee.ID,
		Term:    fee.Term,
		Amount:  &amount,
		DueDate: fee.DueDate,
		Paid:    &paid,
	}
}

// ToModel converts the payload into an exam result for studentID; the payload id is ignored
func (e ExamDto) ToModel(studentID int64) *models.ExamResult {
	return &models.ExamResult{
		StudentID:     studentID,
		Subject:       e.Subject,
		MarksObtained: e.MarksObtained,
		MaxMarks:      e.MaxMarks,
		ExamDate:      e.ExamDate,
	}
}

// ToModel converts the payload into a fee entry for studentID; the payload id is ignored
func (f FeeDto) ToModel(studentID int64) *models.FeeEntry {
	fee := &models.FeeEntry{
		StudentID: studentID,
		Term:      f.Term,
		Amount:    decimal.Zero,
		DueDate:   f.DueDate,
	}
	if f.Amount != nil {
		fee.Amount = *f.Amount
	}
	if f.Paid != nil {
		fee.Paid = *f.Paid
	}
	return fee
}
