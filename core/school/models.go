package school

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type School struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Class struct {
	ID       string `json:"id" db:"id"`
	SchoolID string `json:"schoolId" db:"school_id"`
	Name     string `json:"name" db:"name"`
}

// Parent is the guardian profile attached to a PARENT user.
type Parent struct {
	ID     string      `json:"id" db:"id"`
	UserID string      `json:"userId" db:"user_id"`
	Name   string      `json:"name" db:"name"`
	Phone  null.String `json:"phone" db:"phone"`
}

type Student struct {
	ID        string      `json:"id" db:"id"`
	SchoolID  string      `json:"schoolId" db:"school_id"`
	ClassID   null.String `json:"classId" db:"class_id"`
	ClassName null.String `json:"class" db:"class_name"`
	ParentID  null.String `json:"parentId" db:"parent_id"`
	NISN      string      `json:"nisn" db:"nisn"`
	Name      string      `json:"name" db:"name"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// Child is the parent-facing view of a Student.
type Child struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	NISN  string      `json:"nisn"`
	Class null.String `json:"class"`
}

func (s Student) Child() Child {
	return Child{ID: s.ID, Name: s.Name, NISN: s.NISN, Class: s.ClassName}
}

type Subject struct {
	ID       string      `json:"id" db:"id"`
	SchoolID string      `json:"schoolId" db:"school_id"`
	Name     string      `json:"name" db:"name"`
	Code     null.String `json:"code" db:"code"`
}

// Assessment types
const (
	AssessmentDaily   = "DAILY"
	AssessmentMidterm = "MIDTERM"
	AssessmentFinal   = "FINAL"
	AssessmentProject = "PROJECT"
)

type Assessment struct {
	ID          string      `json:"id" db:"id"`
	StudentID   string      `json:"studentId" db:"student_id"`
	StudentName string      `json:"studentName" db:"student_name"`
	SubjectID   string      `json:"subjectId" db:"subject_id"`
	SubjectName string      `json:"subjectName" db:"subject_name"`
	Type        string      `json:"type" db:"type"`
	Score       float64     `json:"score" db:"score"`
	MaxScore    float64     `json:"maxScore" db:"max_score"`
	Date        time.Time   `json:"date" db:"date"`
	Description null.String `json:"description" db:"description"`
}

type ReportCard struct {
	ID           string      `json:"id" db:"id"`
	StudentID    string      `json:"studentId" db:"student_id"`
	Semester     int         `json:"semester" db:"semester"`
	AcademicYear string      `json:"academicYear" db:"academic_year"`
	Notes        null.String `json:"notes" db:"notes"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
}

// AssessmentFilter selects assessments; an empty StudentIDs matches nothing.
type AssessmentFilter struct {
	StudentIDs []string
}

type StudentFilter struct {
	Search  string `query:"search"`
	ClassID string `query:"classId"`
}
