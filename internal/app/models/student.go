package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Fee amounts travel as JSON numbers, as the web client expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// Student defines the student model based on the 'students' table.
// Exam results and fee entries reference the student by id; the student holds no child list.
type Student struct {
	ID    int64  `json:"id" db:"id" example:"1"`
	Name  string `json:"name" db:"name" example:"Ana"`
	Email string `json:"email" db:"email" example:"ana@x.com"`
}

// ExamResult defines the exam result model based on the 'exam_results' table
type ExamResult struct {
	ID            int64  `json:"id" db:"id"`
	StudentID     int64  `json:"studentId" db:"student_id"`
	Subject       string `json:"subject" db:"subject" example:"Math"`
	MarksObtained int    `json:"marksObtained" db:"marks_obtained" example:"80"`
	MaxMarks      int    `json:"maxMarks" db:"max_marks" example:"100"`
	ExamDate      *Date  `json:"examDate,omitempty" db:"exam_date" swaggertype:"string" example:"2024-05-01"`
}

// FeeEntry defines the fee model based on the 'fee_entries' table
type FeeEntry struct {
	ID        int64           `json:"id" db:"id"`
	StudentID int64           `json:"studentId" db:"student_id"`
	Term      string          `json:"term" db:"term" example:"T1"`
	Amount    decimal.Decimal `json:"amount" db:"amount" swaggertype:"number" example:"500"`
	DueDate   *Date           `json:"dueDate,omitempty" db:"due_date" swaggertype:"string" example:"2024-06-30"`
	Paid      bool            `json:"paid" db:"paid"`
}
