package services

import (
	"errors"
	"fmt"
	"time"

	"storerating/internal/apperr"
	"storerating/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

// Identity is who a request acts as, as carried by a token.
type Identity struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Claims is the signed token payload.
type Claims struct {
	UserID uint        `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

// Valid rejects tokens without an expiry or with a role outside the closed set,
// on top of the standard time checks.
func (c *Claims) Valid() error {
	if c.ExpiresAt == 0 {
		return errors.New("token has no expiry")
	}
	if err := c.StandardClaims.Valid(); err != nil {
		return err
	}
	if !c.Role.Valid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// Identity returns the caller identity the claims describe.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// Credentials hashes passwords and issues and verifies session tokens.
// The signing secret is fixed at construction and never changes.
type Credentials struct {
	secret []byte
	now    func() time.Time
}

// NewCredentials creates a Credentials signing with secret.
func NewCredentials(secret string) *Credentials {
	return &Credentials{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// HashPassword returns a salted bcrypt hash of plaintext.
func (c *Credentials) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches hash.
func (c *Credentials) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueToken signs an HS256 token for id that expires TokenTTL from now.
func (c *Credentials) IssueToken(id Identity) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: id.ID,
		Name:   id.Name,
		Email:  id.Email,
		Role:   id.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TokenTTL).Unix(),
		},
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses tokenString and returns its claims. Any failure
// (signature, algorithm, structure, expiry) is a forbidden error.
func (c *Credentials) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, apperr.Forbidden("Forbidden. Invalid token.", err)
	}
	if !token.Valid {
		return nil, apperr.Forbidden("Forbidden. Invalid token.", nil)
	}
	return claims, nil
}
