// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/user"
	"github.com/trezcool/rapor/storage/database"
)

// SecretKey is a 32+ bytes session key for tests.
const SecretKey = "test-secret-key-0123456789abcdefghijklmnop"

// NewConfig returns a valid TEST config that does not depend on the environment.
func NewConfig() *core.Config {
	conf := &core.Config{Env: "TEST", AppName: "Rapor", Build: "test"}
	conf.Server.Addr = ":0"
	conf.Server.ShutdownTimeout = time.Second
	conf.Session.SecretKey = []byte(SecretKey)
	conf.Session.TTL = time.Hour
	conf.Database.URL = os.Getenv("TEST_DATABASE_URL")
	conf.Log.Level = "debug"
	return conf
}

// NewValidator returns a validator with every custom rule of the app registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, role user.Role) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

var (
	dbOnce sync.Once
	db     *sqlx.DB
	dbErr  error
)

// PrepareDB returns the migrated, emptied Postgres database at TEST_DATABASE_URL.
// Tests are skipped when it is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	dbOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if db, dbErr = database.Open(ctx, url, 5); dbErr != nil {
			return
		}
		dbErr = database.Migrate(db.DB)
	})
	if dbErr != nil {
		t.Fatalf("PrepareDB() failed: %v", dbErr)
	}

	ResetDB(t, db)
	return db
}

// ResetDB deletes every row of every table.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()

	q := `TRUNCATE report_cards, assessments, subjects, students, parents, classes, schools, users CASCADE`
	if _, err := db.Exec(q); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
