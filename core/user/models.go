package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/rapor/core"
)

// Role is the closed set of roles a User can hold.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleParent  Role = "PARENT"
	RoleStudent Role = "STUDENT"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleParent, RoleStudent}

// ParseRole returns the Role matching s (case-insensitive).
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsParent() bool  { return u.Role == RoleParent }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NISN returns the national student number of a STUDENT user.
// Student accounts are provisioned as `<nisn>@<school domain>`.
// TODO: replace with an explicit users -> students foreign key.
func (u *User) NISN() string {
	return NISNFromEmail(u.Email)
}

// NISNFromEmail returns the local part of email (before the first "@").
func NISNFromEmail(email string) string {
	email = core.CleanString(email)
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,role"`
	Password string `json:"password" validate:"required"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = strings.ToUpper(core.CleanString(nu.Role))
}

// ResetUserPassword contains what is needed to set a new password.
type ResetUserPassword struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
