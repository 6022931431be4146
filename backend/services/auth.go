package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"skillnexis/backend/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminUserID = "admin"

	minNameLength     = 2
	minPasswordLength = 6
)

// AuthResult is a started session and the page the client should open next.
type AuthResult struct {
	Session  models.Session
	Redirect string
}

// AuthService implements the demo login: the configured admin account is
// checked against its password, every other valid address is accepted and
// gets a student account on first use.
type AuthService struct {
	data     *AdminDataManager
	sessions *SessionStore
	logger   *log.Logger
	now      func() time.Time

	adminEmail        string
	adminPasswordHash []byte
}

func NewAuthService(data *AdminDataManager, sessions *SessionStore, adminEmail, adminPassword string, logger *log.Logger) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthService{
		data:              data,
		sessions:          sessions,
		logger:            logger,
		now:               data.now,
		adminEmail:        normalizeEmail(adminEmail),
		adminPasswordHash: hash,
	}, nil
}

func redirectFor(role models.Role) string {
	if role == models.RoleAdmin {
		return "/admin"
	}
	return "/dashboard"
}

func (a *AuthService) adminUser() models.User {
	now := a.now()
	u := models.User{
		ID:         adminUserID,
		Name:       "Admin",
		Email:      a.adminEmail,
		Role:       models.RoleAdmin,
		JoinedDate: now,
		LastActive: now,
	}
	u.Normalize()
	return u
}

func (a *AuthService) startSession(ctx context.Context, user models.User) (*AuthResult, error) {
	session := models.Session{
		ID:        uuid.NewString(),
		User:      user.Clone(),
		CreatedAt: a.now(),
	}
	if err := a.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &AuthResult{Session: session, Redirect: redirectFor(user.Role)}, nil
}

// Login signs a user in. Unknown addresses get a student account named after
// the local part of the address.
func (a *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, newValidationError("", "Email and password are required")
	}
	if !ValidEmail(email) {
		return nil, newValidationError("email", "Please enter a valid email address")
	}

	if email == a.adminEmail {
		if err := bcrypt.CompareHashAndPassword(a.adminPasswordHash, []byte(password)); err != nil {
			a.logger.Printf("[AUTH] Failed admin login for %s", email)
			return nil, ErrInvalidCredentials
		}
		return a.startSession(ctx, a.adminUser())
	}

	user, err := a.ensureStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	return a.startSession(ctx, user)
}

// Register creates a student account and signs it in.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	switch {
	case name == "" || email == "" || password == "":
		return nil, newValidationError("", "All fields are required")
	case utf8.RuneCountInString(name) < minNameLength:
		return nil, newValidationError("name", "Name must be at least 2 characters long")
	case !ValidEmail(email):
		return nil, newValidationError("email", "Please enter a valid email address")
	case len(password) < minPasswordLength:
		return nil, newValidationError("password", "Password must be at least 6 characters long")
	case email == a.adminEmail:
		return nil, ErrUserExists
	}

	if _, ok := a.data.FindUserByEmail(ctx, email); ok {
		return nil, ErrUserExists
	}
	user, err := a.data.AddUser(ctx, models.User{Name: name, Email: email, Role: models.RoleStudent})
	if err != nil {
		return nil, err
	}
	a.logger.Printf("[AUTH] Registered %s", email)
	return a.startSession(ctx, user)
}

// ensureStudent returns the stored account of email with lastActive bumped,
// creating it when missing. Only the configured admin address signs in as
// admin, so the returned user is always a student whatever role is stored.
func (a *AuthService) ensureStudent(ctx context.Context, email string) (models.User, error) {
	user, err := a.findOrCreateStudent(ctx, email)
	user.Role = models.RoleStudent
	return user, err
}

func (a *AuthService) findOrCreateStudent(ctx context.Context, email string) (models.User, error) {
	if existing, ok := a.data.FindUserByEmail(ctx, email); ok {
		if err := a.data.TouchUser(ctx, existing.ID); err != nil {
			return models.User{}, err
		}
		if refreshed, ok := a.data.GetUser(ctx, existing.ID); ok {
			return refreshed, nil
		}
		return existing, nil
	}

	name := strings.SplitN(email, "@", 2)[0]
	user, err := a.data.AddUser(ctx, models.User{Name: name, Email: email, Role: models.RoleStudent})
	if errors.Is(err, ErrUserExists) {
		// Lost a race with a concurrent login for the same address.
		if existing, ok := a.data.FindUserByEmail(ctx, email); ok {
			return existing, nil
		}
	}
	return user, err
}

// Logout ends a session and returns the page to show afterwards.
func (a *AuthService) Logout(ctx context.Context, sessionID string) (string, error) {
	if err := a.sessions.Delete(ctx, sessionID); err != nil {
		return "", err
	}
	return "/", nil
}

func (a *AuthService) Current(ctx context.Context, sessionID string) (*models.Session, error) {
	return a.sessions.Load(ctx, sessionID)
}

// Sync reconciles a student session with the stored account: the account is
// created when missing, lastActive is bumped and the session snapshot is
// replaced with the stored record.
func (a *AuthService) Sync(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.User.Role != models.RoleStudent {
		return session, nil
	}

	var user models.User
	if stored, ok := a.data.GetUser(ctx, session.User.ID); ok {
		if err := a.data.TouchUser(ctx, stored.ID); err != nil {
			return nil, err
		}
		user = stored
		if refreshed, ok := a.data.GetUser(ctx, stored.ID); ok {
			user = refreshed
		}
	} else if _, ok := a.data.FindUserByEmail(ctx, session.User.Email); ok {
		user, err = a.ensureStudent(ctx, session.User.Email)
		if err != nil {
			return nil, err
		}
	} else {
		snapshot := session.User.Clone()
		snapshot.LastActive = a.now()
		user, err = a.data.AddUser(ctx, snapshot)
		if err != nil {
			return nil, err
		}
	}

	session.User = user.Clone()
	session.User.Role = models.RoleStudent
	if err := a.sessions.Save(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}
