package echoapi

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rapor/core/school"
	"github.com/trezcool/rapor/core/user"
)

func Test_academicsApi_queryStudents(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "Admin", "admin@sman1.sch.id", user.RoleAdmin)
	teacher := app.createUser(t, "Bu Sari", "sari@sman1.sch.id", user.RoleTeacher)
	parent := app.createUser(t, "Pak Hadi", "hadi@mail.id", user.RoleParent)

	sch := app.db.AddSchool("SMA Negeri 1 Bandung")
	ipa := app.db.AddClass(sch.ID, "X IPA 1")
	ips := app.db.AddClass(sch.ID, "X IPS 2")
	citra := app.db.AddStudent(school.Student{SchoolID: sch.ID, ClassID: null.StringFrom(ipa.ID), NISN: "0051234569", Name: "Citra"})
	andi := app.db.AddStudent(school.Student{SchoolID: sch.ID, ClassID: null.StringFrom(ips.ID), NISN: "0051234567", Name: "Andi"})
	budi := app.db.AddStudent(school.Student{SchoolID: sch.ID, ClassID: null.StringFrom(ipa.ID), NISN: "0051234568", Name: "Budi"})

	path := func(search, classID, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if classID != "" {
			v.Add("classId", classID)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/api/students?" + v.Encode()
	}
	adminToken := app.getToken(t, admin)

	tests := []httpTest{
		{name: "Auth required", path: "/api/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "Staff required", path: "/api/students", token: app.getToken(t, parent), wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)},
		{name: "Get all (teacher)", path: "/api/students", token: app.getToken(t, teacher), wantData: marchallList(t, andi, budi, citra)},
		{name: "Get all (admin)", path: "/api/students", token: adminToken, wantData: marchallList(t, andi, budi, citra)},
		// filtering
		{name: "search (unknown)", path: path("zzz", "", ""), token: adminToken, wantData: marchallList(t)},
		{name: "search by name", path: path("BUD", "", ""), token: adminToken, wantData: marchallList(t, budi)},
		{name: "search by NISN", path: path("4567", "", ""), token: adminToken, wantData: marchallList(t, andi)},
		{name: "class", path: path("", ipa.ID, ""), token: adminToken, wantData: marchallList(t, budi, citra)},
		{name: "search & class", path: path("citra", ipa.ID, ""), token: adminToken, wantData: marchallList(t, citra)},
		// ordering
		{name: "order by -name", path: path("", "", "-name"), token: adminToken, wantData: marchallList(t, citra, budi, andi)},
		{name: "order by class,-name", path: path("", "", "class,-name"), token: adminToken, wantData: marchallList(t, citra, budi, andi)},
		{name: "order by -nisn", path: path("", "", "-nisn"), token: adminToken, wantData: marchallList(t, citra, budi, andi)},
		{name: "unknown ordering is ignored", path: path("", "", "password_hash"), token: adminToken, wantData: marchallList(t, andi, budi, citra)},
	}
	app.run(t, tests)
}

func Test_academicsApi_querySubjects(t *testing.T) {
	app := setup(t)
	teacher := app.createUser(t, "Bu Sari", "sari@sman1.sch.id", user.RoleTeacher)
	student := app.createUser(t, "Andi", "0051234567@sman1.sch.id", user.RoleStudent)

	sch := app.db.AddSchool("SMA Negeri 1 Bandung")
	math := app.db.AddSubject(school.Subject{SchoolID: sch.ID, Name: "Matematika", Code: null.StringFrom("MTK")})
	bio := app.db.AddSubject(school.Subject{SchoolID: sch.ID, Name: "Biologi"})

	tests := []httpTest{
		{name: "Auth required", path: "/api/subjects", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "Staff required", path: "/api/subjects", token: app.getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)},
		{name: "Get all", path: "/api/subjects", token: app.getToken(t, teacher), wantData: marchallList(t, bio, math)},
	}
	app.run(t, tests)
}

func Test_academicsApi_reportCards(t *testing.T) {
	app := setup(t)
	teacher := app.createUser(t, "Bu Sari", "sari@sman1.sch.id", user.RoleTeacher)
	parent := app.createUser(t, "Pak Hadi", "hadi@mail.id", user.RoleParent)

	sch := app.db.AddSchool("SMA Negeri 1 Bandung")
	andi := app.db.AddStudent(school.Student{SchoolID: sch.ID, NISN: "0051234567", Name: "Andi"})
	budi := app.db.AddStudent(school.Student{SchoolID: sch.ID, NISN: "0051234568", Name: "Budi"})
	odd := app.db.AddReportCard(school.ReportCard{StudentID: andi.ID, Semester: 1, AcademicYear: "2023/2024"})
	even := app.db.AddReportCard(school.ReportCard{StudentID: andi.ID, Semester: 2, AcademicYear: "2023/2024", Notes: null.StringFrom("Naik kelas")})
	older := app.db.AddReportCard(school.ReportCard{StudentID: andi.ID, Semester: 2, AcademicYear: "2022/2023"})

	teacherToken := app.getToken(t, teacher)
	tests := []httpTest{
		{name: "Auth required", path: "/api/students/" + andi.ID + "/report-cards", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{
			name: "Staff required", path: "/api/students/" + andi.ID + "/report-cards", token: app.getToken(t, parent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "unknown student", path: "/api/students/unknown/report-cards", token: teacherToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student not found"}),
		},
		{name: "no report cards", path: "/api/students/" + budi.ID + "/report-cards", token: teacherToken, wantData: marchallList(t)},
		{name: "most recent first", path: "/api/students/" + andi.ID + "/report-cards", token: teacherToken, wantData: marchallList(t, even, odd, older)},
	}
	app.run(t, tests)
}

func Test_academicsApi_destroyAssessment(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "Admin", "admin@sman1.sch.id", user.RoleAdmin)
	student := app.createUser(t, "Andi", "0051234567@sman1.sch.id", user.RoleStudent)

	sch := app.db.AddSchool("SMA Negeri 1 Bandung")
	andi := app.db.AddStudent(school.Student{SchoolID: sch.ID, NISN: "0051234567", Name: "Andi"})
	math := app.db.AddSubject(school.Subject{SchoolID: sch.ID, Name: "Matematika"})
	assessment := app.db.AddAssessment(school.Assessment{
		StudentID: andi.ID, SubjectID: math.ID, Type: school.AssessmentFinal, Score: 88, Date: time.Now().UTC(),
	})
	path := "/api/assessments/" + assessment.ID

	tests := []httpTest{
		{name: "Auth required", method: http.MethodDelete, path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{
			name: "Staff required", method: http.MethodDelete, path: path, token: app.getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
	}
	app.run(t, tests)

	adminToken := app.getToken(t, admin)
	req, rec := newAuthRequest(http.MethodDelete, path, adminToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// the student no longer sees it
	req, rec = newAuthRequest(http.MethodGet, "/api/student/assessments", app.getToken(t, student))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantData: marchallList(t)}, rec)

	req, rec = newAuthRequest(http.MethodDelete, path, adminToken)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
}
