// Package inmemdb is a map-backed store for tests and local demos.
package inmemdb

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/rapor/core/school"
	"github.com/trezcool/rapor/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	schools     map[string]*school.School
	classes     map[string]*school.Class
	parents     map[string]*school.Parent
	students    map[string]*school.Student
	subjects    map[string]*school.Subject
	assessments map[string]*school.Assessment
	reportCards map[string]*school.ReportCard

	queries int   // number of repository calls served
	failure error // returned by every repository call when set
}

func Open() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		schools:     make(map[string]*school.School),
		classes:     make(map[string]*school.Class),
		parents:     make(map[string]*school.Parent),
		students:    make(map[string]*school.Student),
		subjects:    make(map[string]*school.Subject),
		assessments: make(map[string]*school.Assessment),
		reportCards: make(map[string]*school.ReportCard),
	}
}

// Fail makes every subsequent repository call return err (nil resets).
func (db *DB) Fail(err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.failure = err
}

// Queries returns the number of repository calls served so far.
func (db *DB) Queries() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.queries
}

// begin must be called with the mutex held.
func (db *DB) begin() error {
	db.queries++
	return db.failure
}

func newID() string {
	return uuid.New().String()
}

// Seeding helpers

func (db *DB) AddSchool(name string) school.School {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	sch := school.School{ID: newID(), Name: name, CreatedAt: time.Now().UTC()}
	db.schools[sch.ID] = &sch
	return sch
}

func (db *DB) AddClass(schoolID, name string) school.Class {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	cls := school.Class{ID: newID(), SchoolID: schoolID, Name: name}
	db.classes[cls.ID] = &cls
	return cls
}

func (db *DB) AddParent(parent school.Parent) school.Parent {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	parent.ID = newID()
	db.parents[parent.ID] = &parent
	return parent
}

// AddStudent stores stdnt, resolving its ClassName from ClassID.
func (db *DB) AddStudent(stdnt school.Student) school.Student {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	stdnt.ID = newID()
	if stdnt.CreatedAt.IsZero() {
		stdnt.CreatedAt = time.Now().UTC()
	}
	if cls, ok := db.classes[stdnt.ClassID.String]; ok && stdnt.ClassID.Valid {
		stdnt.ClassName.SetValid(cls.Name)
	}
	db.students[stdnt.ID] = &stdnt
	return stdnt
}

func (db *DB) AddSubject(sbj school.Subject) school.Subject {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	sbj.ID = newID()
	db.subjects[sbj.ID] = &sbj
	return sbj
}

// AddAssessment stores a, resolving its student & subject names.
func (db *DB) AddAssessment(a school.Assessment) school.Assessment {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	a.ID = newID()
	if s, ok := db.students[a.StudentID]; ok {
		a.StudentName = s.Name
	}
	if s, ok := db.subjects[a.SubjectID]; ok {
		a.SubjectName = s.Name
	}
	if a.MaxScore == 0 {
		a.MaxScore = 100
	}
	db.assessments[a.ID] = &a
	return a
}

func (db *DB) AddReportCard(rc school.ReportCard) school.ReportCard {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	rc.ID = newID()
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = time.Now().UTC()
	}
	db.reportCards[rc.ID] = &rc
	return rc
}
