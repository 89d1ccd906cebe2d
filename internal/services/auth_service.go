package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"github.com/tablecraft/tablecraft-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// bcryptCost matches the original deployment's hashing work factor.
const bcryptCost = 12

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrIdentityTaken        = errors.New("username or email is already taken")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrPasswordTooShort     = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// emailShape is the simple local@domain.tld check the API has always
// applied; full RFC validation is deliberately out of scope.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService is the auth gate: it maps credentials to user identities and
// owns the only code path that ever sees a plaintext password.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

// Register creates a new user and issues a fresh credential.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if !emailShape.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(input.Password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	// One lookup covers both uniqueness fields.
	if existing, err := s.userRepo.FindByUsernameOrEmail(username, email); err == nil {
		if existing.Email == email {
			return nil, "", ErrEmailTaken
		}
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue credential: %w", err)
	}

	return user, tok, nil
}

// Login verifies credentials and issues a fresh credential. Unknown email
// and wrong password fail identically so neither field leaks.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue credential: %w", err)
	}

	return user, tok, nil
}

// VerifyCredential resolves a bearer credential to the user it asserts.
func (s *AuthService) VerifyCredential(tokenStr string) (*models.User, error) {
	userID, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, token.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetProfile retrieves a user by ID.
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the optional profile fields. Nil means the field
// was not sent and keeps its prior value.
type UpdateProfileInput struct {
	Username *string
	Email    *string
	Name     *string
	Password *string
	Avatar   *string
}

// UpdateProfile applies the provided fields, re-hashing the password when
// it changes.
func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	if input.Username == nil && input.Email == nil && input.Name == nil &&
		input.Password == nil && input.Avatar == nil {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var newUsername, newEmail string
	if input.Username != nil {
		newUsername = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		newEmail = strings.TrimSpace(*input.Email)
		if !emailShape.MatchString(newEmail) {
			return nil, ErrInvalidEmail
		}
	}
	if newUsername != "" || newEmail != "" {
		if _, err := s.userRepo.FindCollision(newUsername, newEmail, user.ID); err == nil {
			return nil, ErrIdentityTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing users: %w", err)
		}
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	if newEmail != "" {
		user.Email = newEmail
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
