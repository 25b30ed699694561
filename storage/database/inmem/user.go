package inmemdb

import (
	"context"

	"github.com/trezcool/rapor/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return user.User{}, err
	}

	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return user.User{}, err
	}

	for _, usr := range repo.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return user.User{}, err
	}

	usr.ID = newID()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if err := repo.db.begin(); err != nil {
		return user.User{}, err
	}

	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

// DeleteUser removes a user; used to simulate accounts deleted after login.
func (repo *userRepository) DeleteUser(id string) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.users, id)
}
