package auth

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/config"
	"github.com/avelichka/bookshelf/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserExists         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// UserStore is the user persistence the service needs.
type UserStore interface {
	Create(name, email, passwordHash string) (*entities.User, error)
	GetByID(id uint) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
}

// ShelfSeeder creates the default shelves for a new user.
type ShelfSeeder interface {
	SeedDefaults(userID uint) error
}

// Service handles registration and credential checks.
type Service struct {
	users   UserStore
	shelves ShelfSeeder
	config  config.Auth
}

func NewService(users UserStore, shelves ShelfSeeder, cfg config.Auth) *Service {
	return &Service{
		users:   users,
		shelves: shelves,
		config:  cfg,
	}
}

// Register creates a new user and seeds their default shelves.
func (s *Service) Register(name, email, password string) (*entities.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// RFC 5321 caps addresses at 254 bytes
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(name, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.shelves.SeedDefaults(user.ID); err != nil {
		return nil, fmt.Errorf("failed to seed default shelves: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. Unknown email
// and wrong password both map to ErrInvalidCredentials.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID, or nil when no such user
// exists.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}
