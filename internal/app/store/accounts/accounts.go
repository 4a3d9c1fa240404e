// Package accounts registers users and checks credentials against the
// users sequence of the care document.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/authutil"
	"github.com/dalemusser/carehub/internal/domain/models"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidCredentials is returned when no user matches the email and password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Store struct {
	doc docstore.Store
}

func New(doc docstore.Store) *Store {
	return &Store{doc: doc}
}

// Create appends a new user after normalizing fields and hashing the
// password. Registering as a caretaker also appends a caretaker roster row.
// The email check and the append happen in one Update.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = models.NewID()
	u.Name = strings.TrimSpace(u.Name)
	u.Email = models.NormalizeEmail(u.Email)
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	u.CreatedAt = models.NowMillis()

	hash, err := authutil.HashPassword(u.Password)
	if err != nil {
		return models.User{}, err
	}
	u.Password = hash

	err = s.doc.Update(ctx, func(doc *models.Document) error {
		if doc.FindUserByEmail(u.Email) >= 0 {
			return ErrDuplicateEmail
		}
		doc.Users = append(doc.Users, u)
		if u.Role == models.RoleCaretaker {
			doc.Caretakers = append(doc.Caretakers, models.Caretaker{
				ID:        models.NewID(),
				UserID:    u.ID,
				Name:      u.Name,
				Email:     u.Email,
				CreatedAt: u.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user whose email and password match.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	doc, err := s.doc.Load(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("load users: %w", err)
	}
	i := doc.FindUserByEmail(models.NormalizeEmail(email))
	if i < 0 {
		return models.User{}, ErrInvalidCredentials
	}
	u := doc.Users[i]
	if !authutil.CheckPassword(u.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the user with id.
func (s *Store) GetByID(ctx context.Context, id string) (models.User, bool, error) {
	doc, err := s.doc.Load(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("load users: %w", err)
	}
	for _, u := range doc.Users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}
