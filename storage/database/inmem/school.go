package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) GetSchoolByName(_ context.Context, name string) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return school.School{}, err
	}

	for _, sch := range repo.db.schools {
		if strings.EqualFold(sch.Name, name) {
			return *sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) GetParentByUserID(_ context.Context, userID string) (school.Parent, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return school.Parent{}, err
	}

	for _, p := range repo.db.parents {
		if p.UserID == userID {
			return *p, nil
		}
	}
	return school.Parent{}, school.ErrNotFound
}

func (repo *schoolRepository) GetStudentByID(_ context.Context, id string) (school.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return school.Student{}, err
	}

	if s, ok := repo.db.students[id]; ok {
		return *s, nil
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *schoolRepository) GetStudentByNISN(_ context.Context, nisn string) (school.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return school.Student{}, err
	}

	if nisn != "" {
		for _, s := range repo.db.students {
			if s.NISN == nisn {
				return *s, nil
			}
		}
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryStudents(_ context.Context, filter school.StudentFilter, ordering []core.DBOrdering) ([]school.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return nil, err
	}

	search := strings.ToLower(filter.Search)
	students := make([]school.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(s.NISN, search) {
			continue
		}
		if filter.ClassID != "" && s.ClassID.String != filter.ClassID {
			continue
		}
		students = append(students, *s)
	}

	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		for _, ord := range ordering {
			if c := compareStudents(a, b, ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return a.Name < b.Name
	})
	return students, nil
}

func (repo *schoolRepository) QueryChildren(_ context.Context, parentID string) ([]school.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return nil, err
	}

	students := make([]school.Student, 0)
	for _, s := range repo.db.students {
		if s.ParentID.Valid && s.ParentID.String == parentID {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *schoolRepository) QuerySubjects(_ context.Context) ([]school.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return nil, err
	}

	subjects := make([]school.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		subjects = append(subjects, *s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *schoolRepository) QueryAssessments(_ context.Context, filter school.AssessmentFilter) ([]school.Assessment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(filter.StudentIDs))
	for _, id := range filter.StudentIDs {
		ids[id] = true
	}
	assessments := make([]school.Assessment, 0)
	for _, a := range repo.db.assessments {
		if ids[a.StudentID] {
			assessments = append(assessments, *a)
		}
	}
	sort.Slice(assessments, func(i, j int) bool {
		if assessments[i].Date.Equal(assessments[j].Date) {
			return assessments[i].ID < assessments[j].ID
		}
		return assessments[i].Date.After(assessments[j].Date)
	})
	return assessments, nil
}

func (repo *schoolRepository) DeleteAssessment(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return err
	}

	if _, ok := repo.db.assessments[id]; !ok {
		return school.ErrNotFound
	}
	delete(repo.db.assessments, id)
	return nil
}

func (repo *schoolRepository) QueryReportCards(_ context.Context, studentID string) ([]school.ReportCard, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return nil, err
	}

	cards := make([]school.ReportCard, 0)
	for _, rc := range repo.db.reportCards {
		if rc.StudentID == studentID {
			cards = append(cards, *rc)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].AcademicYear == cards[j].AcademicYear {
			return cards[i].Semester > cards[j].Semester
		}
		return cards[i].AcademicYear > cards[j].AcademicYear
	})
	return cards, nil
}

func compareStudents(a, b school.Student, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "nisn":
		return strings.Compare(a.NISN, b.NISN)
	case "class":
		return strings.Compare(a.ClassName.String, b.ClassName.String)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}
