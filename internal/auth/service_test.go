package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/bookshelf/internal/config"
	"github.com/avelichka/bookshelf/internal/entities"
)

type stubUserStore struct {
	byEmail map[string]*entities.User
	nextID  uint
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]*entities.User{}}
}

func (s *stubUserStore) Create(name, email, passwordHash string) (*entities.User, error) {
	s.nextID++
	user := &entities.User{ID: s.nextID, Name: name, Email: email, PasswordHash: passwordHash}
	s.byEmail[email] = user
	return user, nil
}

func (s *stubUserStore) GetByID(id uint) (*entities.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserStore) GetByEmail(email string) (*entities.User, error) {
	return s.byEmail[email], nil
}

type stubSeeder struct {
	seeded []uint
}

func (s *stubSeeder) SeedDefaults(userID uint) error {
	s.seeded = append(s.seeded, userID)
	return nil
}

func newTestService() (*Service, *stubUserStore, *stubSeeder) {
	store := newStubUserStore()
	seeder := &stubSeeder{}
	svc := NewService(store, seeder, config.Auth{BcryptCost: 4})
	return svc, store, seeder
}

func TestRegister(t *testing.T) {
	t.Run("New user gets default shelves", func(t *testing.T) {
		svc, store, seeder := newTestService()

		user, err := svc.Register("Ana", "ana@example.com", "reading is fun")

		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
		assert.NotEqual(t, "reading is fun", user.PasswordHash)
		assert.Equal(t, []uint{user.ID}, seeder.seeded)
		assert.NotNil(t, store.byEmail["ana@example.com"])
	})

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register("Ana", "ana@example.com", "reading is fun")
		require.NoError(t, err)

		_, err = svc.Register("Other Ana", "ana@example.com", "also a password")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("Validation failures", func(t *testing.T) {
		svc, _, seeder := newTestService()

		cases := []struct {
			name, userName, email, password string
			want                            error
		}{
			{"empty name", "", "ana@example.com", "reading is fun", ErrNameRequired},
			{"empty email", "Ana", "", "reading is fun", ErrEmailRequired},
			{"empty password", "Ana", "ana@example.com", "", ErrPasswordRequired},
			{"bad email", "Ana", "not-an-email", "reading is fun", ErrEmailInvalid},
			{"short password", "Ana", "ana@example.com", "short", ErrPasswordTooShort},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Register(tc.userName, tc.email, tc.password)
				assert.ErrorIs(t, err, tc.want)
			})
		}
		assert.Empty(t, seeder.seeded)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService()
	registered, err := svc.Register("Ana", "ana@example.com", "reading is fun")
	require.NoError(t, err)

	t.Run("Correct credentials return the user", func(t *testing.T) {
		user, err := svc.Authenticate("ana@example.com", "reading is fun")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("ana@example.com", "not my password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email maps to the same error", func(t *testing.T) {
		_, err := svc.Authenticate("nobody@example.com", "reading is fun")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
