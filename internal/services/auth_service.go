package services

import (
	"context"
	"strings"
	"sync"

	"storerating/internal/apperr"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/validation"

	"github.com/google/uuid"
)

// SignupInput is the self-service registration request.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"max=400"`
}

// LoginInput represents the request body for login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is a fresh session for an authenticated user.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// ProfileInput is a self-service name and email change.
type ProfileInput struct {
	Name  string `json:"name" validate:"required,min=20,max=60"`
	Email string `json:"email" validate:"required,email"`
}

// PasswordInput is a self-service password change.
type PasswordInput struct {
	NewPassword string `json:"newPassword" validate:"required,password"`
}

const invalidLoginMsg = "Invalid email or password."

// AuthService handles business logic for authentication and self-service
// account changes.
type AuthService struct {
	userRepo repositories.UserRepository
	creds    *Credentials
	validate *validation.Validator
	events   EventPublisher

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, creds *Credentials, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		creds:    creds,
		validate: validation.New(),
		events:   events,
	}
}

// Signup registers a Normal user. The role is not taken from the request.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	hashed, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Address:  in.Address,
		Role:     models.RoleNormal,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("This email address is already registered.", err)
		}
		return nil, err
	}

	publishEvent(s.events, EventUserCreated, userCreatedEvent{UserID: user.ID, Role: user.Role.String()})
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			// Spend the same bcrypt work as a real comparison.
			s.creds.VerifyPassword(in.Password, s.dummyPasswordHash())
			return nil, apperr.Unauthenticated(invalidLoginMsg)
		}
		return nil, err
	}
	if !s.creds.VerifyPassword(in.Password, user.Password) {
		return nil, apperr.Unauthenticated(invalidLoginMsg)
	}

	identity := identityOf(user)
	token, err := s.creds.IssueToken(identity)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: identity}, nil
}

// UpdateProfile changes the caller's name and email and returns a new token
// carrying them; the token used for this request keeps the old claims.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, in.Name, in.Email); err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.creds.IssueToken(identityOf(user))
}

// UpdatePassword re-hashes and stores a new password for the caller.
// The current password is not asked for: the bearer token is the proof.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, in PasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	hashed, err := s.creds.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashed)
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.creds.HashPassword(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func identityOf(u *models.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
