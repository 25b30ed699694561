package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
)

var (
	// errors
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
)

type (
	Repository interface {
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		CreateUser(ctx context.Context, usr User) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Authenticate returns the User identified by email and pwd.
// Unknown emails and wrong passwords both yield ErrInvalidCreds.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCreds
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCreds
	}
	return usr, nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}

	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      Role(nu.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) (User, error) {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	if err := svc.validate.Struct(rp); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, rp.Email)
	if err != nil {
		return User{}, err
	}
	// re-run the password policy against the user's attributes
	check := NewUser{Name: usr.Name, Email: usr.Email, Role: usr.Role.String(), Password: rp.Password}
	if err = svc.validate.Struct(check); err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}
