package user

import (
	"database/sql"
	"errors"

	"bill_tracker/internal/auth"
	"bill_tracker/internal/category"
	"bill_tracker/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserServiceInterface interface {
	Register(name, email, password string) (*User, error)
	Login(email, password string) (*User, error)
	GetByID(id int) (*User, error)
}

type UserService struct {
	repo         UserRepositoryInterface
	categoryRepo category.CategoryRepositoryInterface
	db           *sql.DB
}

func NewUserService(repo UserRepositoryInterface, categoryRepo category.CategoryRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo:         repo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

// Register creates a user with a hashed password and seeds the default
// category set. Both inserts run in one transaction: a failed seed leaves no
// orphan user behind.
func (s *UserService) Register(name, email, password string) (*User, error) {
	_, err := s.repo.GetByEmail(s.db, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		id, err := s.repo.Create(tx, u)
		if err != nil {
			return err
		}
		u.ID = id

		return s.categoryRepo.SeedDefaults(tx, id)
	}); err != nil {
		return nil, err
	}

	return u, nil
}

// Login validates credentials. Unknown email and wrong password both come
// back as ErrInvalidCredentials so responses cannot reveal which one it was.
func (s *UserService) Login(email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(s.db, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePasswordHash([]byte(u.PasswordHash), password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(id int) (*User, error) {
	return s.repo.GetByID(s.db, id)
}
