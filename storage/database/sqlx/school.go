package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/school"
)

const (
	studentSelect = `
		SELECT s.id, s.school_id, s.class_id, c.name AS class_name, s.parent_id, s.nisn, s.name, s.created_at
		FROM students s
		LEFT JOIN classes c ON c.id = s.class_id`

	assessmentSelect = `
		SELECT a.id, a.student_id, st.name AS student_name, a.subject_id, sb.name AS subject_name,
		       a.type, a.score, a.max_score, a.date, a.description
		FROM assessments a
		JOIN students st ON st.id = a.student_id
		JOIN subjects sb ON sb.id = a.subject_id`
)

// studentOrderings maps the public ordering fields to their columns.
var studentOrderings = map[string]string{
	"name":       "s.name",
	"nisn":       "s.nisn",
	"class":      "c.name",
	"created_at": "s.created_at",
}

type schoolRepository struct {
	exec core.DBExecutor
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(exec core.DBExecutor) *schoolRepository {
	return &schoolRepository{exec: exec}
}

// trapNoRowsErr maps "no rows" err to school.ErrNotFound
func (repo schoolRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) GetSchoolByName(ctx context.Context, name string) (school.School, error) {
	var sch school.School
	err := repo.exec.GetContext(ctx, &sch, `SELECT id, name, created_at FROM schools WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "finding school by name")
	}
	return sch, nil
}

func (repo schoolRepository) GetParentByUserID(ctx context.Context, userID string) (school.Parent, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return school.Parent{}, school.ErrNotFound
	}
	var parent school.Parent
	err := repo.exec.GetContext(ctx, &parent, `SELECT id, user_id, name, phone FROM parents WHERE user_id = $1`, userID)
	if err != nil {
		return school.Parent{}, repo.trapNoRowsErr(err, "finding parent by user ID")
	}
	return parent, nil
}

func (repo schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return school.Student{}, school.ErrNotFound
	}
	var stdnt school.Student
	if err := repo.exec.GetContext(ctx, &stdnt, studentSelect+` WHERE s.id = $1`, id); err != nil {
		return school.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return stdnt, nil
}

func (repo schoolRepository) GetStudentByNISN(ctx context.Context, nisn string) (school.Student, error) {
	if nisn == "" {
		return school.Student{}, school.ErrNotFound
	}
	var stdnt school.Student
	if err := repo.exec.GetContext(ctx, &stdnt, studentSelect+` WHERE s.nisn = $1`, nisn); err != nil {
		return school.Student{}, repo.trapNoRowsErr(err, "finding student by NISN")
	}
	return stdnt, nil
}

func (repo schoolRepository) QueryStudents(ctx context.Context, filter school.StudentFilter, ordering []core.DBOrdering) ([]school.Student, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		where = append(where, "(s.name ILIKE ? OR s.nisn ILIKE ?)")
		args = append(args, val, val)
	}
	if filter.ClassID != "" {
		if _, err := uuid.Parse(filter.ClassID); err != nil {
			return []school.Student{}, nil
		}
		where = append(where, "s.class_id = ?")
		args = append(args, filter.ClassID)
	}

	query := studentSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy(ordering, studentOrderings, "s.name ASC")

	var students []school.Student
	if err := repo.exec.SelectContext(ctx, &students, repo.exec.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo schoolRepository) QueryChildren(ctx context.Context, parentID string) ([]school.Student, error) {
	var students []school.Student
	if err := repo.exec.SelectContext(ctx, &students, studentSelect+` WHERE s.parent_id = $1 ORDER BY s.name`, parentID); err != nil {
		return nil, errors.Wrap(err, "querying children")
	}
	return students, nil
}

func (repo schoolRepository) QuerySubjects(ctx context.Context) ([]school.Subject, error) {
	var subjects []school.Subject
	if err := repo.exec.SelectContext(ctx, &subjects, `SELECT id, school_id, name, code FROM subjects ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjects, nil
}

func (repo schoolRepository) QueryAssessments(ctx context.Context, filter school.AssessmentFilter) ([]school.Assessment, error) {
	if len(filter.StudentIDs) == 0 {
		return []school.Assessment{}, nil
	}
	query, args, err := sqlx.In(assessmentSelect+` WHERE a.student_id IN (?) ORDER BY a.date DESC, a.id`, filter.StudentIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building assessments query")
	}

	var assessments []school.Assessment
	if err = repo.exec.SelectContext(ctx, &assessments, repo.exec.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying assessments")
	}
	return assessments, nil
}

func (repo schoolRepository) DeleteAssessment(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return school.ErrNotFound
	}
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assessment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting assessment")
	}
	if n == 0 {
		return school.ErrNotFound
	}
	return nil
}

func (repo schoolRepository) QueryReportCards(ctx context.Context, studentID string) ([]school.ReportCard, error) {
	var cards []school.ReportCard
	err := repo.exec.SelectContext(ctx, &cards, `
		SELECT id, student_id, semester, academic_year, notes, created_at
		FROM report_cards
		WHERE student_id = $1
		ORDER BY academic_year DESC, semester DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying report cards")
	}
	return cards, nil
}

// orderBy builds an ORDER BY clause from the allowed fields only.
func orderBy(ordering []core.DBOrdering, allowed map[string]string, fallback string) string {
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := allowed[ord.Field]; ok {
			clauses = append(clauses, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(clauses) == 0 {
		return fallback
	}
	return strings.Join(clauses, ", ")
}
