package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"spendbook.com/internal/domain"
	"spendbook.com/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

// AuthServiceImpl implements domain.AuthService.
type AuthServiceImpl struct {
	db     *gorm.DB
	tokens domain.TokenService
}

func NewAuthService(db *gorm.DB, tokens domain.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{db: db, tokens: tokens}
}

func validatePasswordLength(password string) string {
	if len(password) < passwordMinLength {
		return "Ensure this field has at least 8 characters."
	}
	if len(password) > passwordMaxLength {
		return "Ensure this field has no more than 128 characters."
	}
	return ""
}

// Register validates the input, hashes the password and creates the user.
// All field errors are collected into a single response.
func (s *AuthServiceImpl) Register(ctx context.Context, input domain.RegisterInput) error {
	fields := map[string]string{}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" {
		fields["username"] = "This field is required."
	}
	if email == "" {
		fields["email"] = "This field is required."
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "Enter a valid email address."
	}
	if msg := validatePasswordLength(input.Password); msg != "" {
		fields["password"] = msg
	}

	if _, taken := fields["username"]; !taken && username != "" {
		var matched int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("username = ?", username).Count(&matched).Error; err != nil {
			return domain.NewInternalError("failed to check username uniqueness", err)
		}
		if matched > 0 {
			fields["username"] = "A user with that username already exists."
		}
	}
	if _, taken := fields["email"]; !taken && email != "" {
		var matched int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("email = ?", email).Count(&matched).Error; err != nil {
			return domain.NewInternalError("failed to check email uniqueness", err)
		}
		if matched > 0 {
			fields["email"] = "This field must be unique."
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}

	user := model.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost the race against a concurrent registration; the unique
		// index is the final arbiter.
		return domain.NewBadRequestError("username or email already exists")
	}
	return nil
}

// Login verifies credentials and issues a token pair. The distinct error
// messages for missing input, unknown user and wrong password are part of
// the API contract.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*model.User, *domain.TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, nil, domain.NewValidationError("msg", "Username and password are required.")
	}
	if msg := validatePasswordLength(password); msg != "" {
		return nil, nil, domain.NewValidationError("password", msg)
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NewValidationError("msg", "User does not exist.")
		}
		return nil, nil, domain.NewInternalError("failed to look up user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, domain.NewValidationError("msg", "Incorrect username or password.")
	}

	// Logging in reactivates an account that was deactivated at logout.
	if !user.IsActive {
		if err := s.db.WithContext(ctx).Model(&user).Update("is_active", true).Error; err != nil {
			return nil, nil, domain.NewInternalError("failed to reactivate user", err)
		}
		user.IsActive = true
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to issue tokens", err)
	}
	return &user, pair, nil
}

// Logout blacklists the refresh token and deactivates the caller. Any
// revocation failure surfaces as a generic 400; the details only go to
// the server log.
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uint, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.NewValidationError("refresh_token", "This field is required.")
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		log.Printf("AuthService: refresh token revocation failed: %v", err)
		return domain.NewValidationError("msg", "An error occurred while logging out.")
	}

	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).Update("is_active", false).Error; err != nil {
		return domain.NewInternalError("failed to deactivate user", err)
	}
	return nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user not found")
		}
		return nil, domain.NewInternalError("failed to load user", err)
	}
	return &user, nil
}

// UpdateProfile changes the mutable profile fields. Identity fields
// (id, username, email) are server-controlled and never touched here.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uint, input domain.ProfileUpdateInput) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, domain.NewInternalError("failed to update profile", err)
		}
	}
	return user, nil
}
