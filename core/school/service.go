package school

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("not found")
	ErrStudentNotFound = errors.New("student not found")
)

type (
	Repository interface {
		GetSchoolByName(ctx context.Context, name string) (School, error) // case-insensitive exact match
		GetParentByUserID(ctx context.Context, userID string) (Parent, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByNISN(ctx context.Context, nisn string) (Student, error)
		QueryStudents(ctx context.Context, filter StudentFilter, ordering []core.DBOrdering) ([]Student, error)
		QueryChildren(ctx context.Context, parentID string) ([]Student, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
		// QueryAssessments returns assessments ordered by date, most recent first.
		QueryAssessments(ctx context.Context, filter AssessmentFilter) ([]Assessment, error)
		DeleteAssessment(ctx context.Context, id string) error
		QueryReportCards(ctx context.Context, studentID string) ([]ReportCard, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CheckSchool reports whether a school named `name` exists (case-insensitive).
func (svc *Service) CheckSchool(ctx context.Context, name string) (School, bool, error) {
	sch, err := svc.repo.GetSchoolByName(ctx, core.CleanString(name))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return School{}, false, nil
		}
		return School{}, false, errors.Wrap(err, "finding school by name")
	}
	return sch, true, nil
}

// Children returns the students linked to the parent profile of usr.
// A parent without a profile has no children.
func (svc *Service) Children(ctx context.Context, usr user.User) ([]Student, error) {
	parent, err := svc.repo.GetParentByUserID(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return []Student{}, nil
		}
		return nil, errors.Wrap(err, "finding parent by user ID")
	}

	children, err := svc.repo.QueryChildren(ctx, parent.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying children")
	}
	if children == nil {
		children = []Student{}
	}
	return children, nil
}

// ParentAssessments returns the assessments of every child of usr, most recent first.
func (svc *Service) ParentAssessments(ctx context.Context, usr user.User) ([]Assessment, error) {
	children, err := svc.Children(ctx, usr)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return []Assessment{}, nil
	}

	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return svc.queryAssessments(ctx, AssessmentFilter{StudentIDs: ids})
}

// StudentAssessments returns the assessments of the student record matching usr's NISN.
func (svc *Service) StudentAssessments(ctx context.Context, usr user.User) ([]Assessment, error) {
	stdnt, err := svc.repo.GetStudentByNISN(ctx, usr.NISN())
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, errors.Wrap(err, "finding student by NISN")
	}
	return svc.queryAssessments(ctx, AssessmentFilter{StudentIDs: []string{stdnt.ID}})
}

func (svc *Service) queryAssessments(ctx context.Context, filter AssessmentFilter) ([]Assessment, error) {
	assessments, err := svc.repo.QueryAssessments(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying assessments")
	}
	if assessments == nil {
		assessments = []Assessment{}
	}
	return assessments, nil
}

func (svc *Service) QueryStudents(ctx context.Context, filter StudentFilter, ordering []core.DBOrdering) ([]Student, error) {
	filter.Search = core.CleanString(filter.Search)
	students, err := svc.repo.QueryStudents(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []Student{}
	}
	return students, nil
}

func (svc *Service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	subjects, err := svc.repo.QuerySubjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []Subject{}
	}
	return subjects, nil
}

// ReportCards returns the report cards of a student; ErrStudentNotFound if there is no such student.
func (svc *Service) ReportCards(ctx context.Context, studentID string) ([]ReportCard, error) {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, errors.Wrap(err, "finding student by ID")
	}

	cards, err := svc.repo.QueryReportCards(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying report cards")
	}
	if cards == nil {
		cards = []ReportCard{}
	}
	return cards, nil
}

func (svc *Service) DeleteAssessment(ctx context.Context, id string) error {
	return svc.repo.DeleteAssessment(ctx, id)
}
