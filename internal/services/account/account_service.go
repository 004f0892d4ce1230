// Package account covers sign-up, verification, credential authentication
// and the client/freelancer account-type flag.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/apperr"
	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/utils"
)

// Mailer delivers the one-time verification code. Sign-up aborts when
// delivery fails so accounts never end up unverifiable in silence.
type Mailer interface {
	SendVerificationCode(to, username, code string) error
}

const verifyCodeTTL = time.Hour

type Service struct {
	DB     *gorm.DB
	Mailer Mailer
	Log    *zap.SugaredLogger
}

func NewService(db *gorm.DB, mailer Mailer, log *zap.SugaredLogger) *Service {
	return &Service{DB: db, Mailer: mailer, Log: log}
}

// SignUp registers a new unverified user and emails the verification code.
// A verified user already holding the username or email is a conflict; an
// unverified user on the same email gets a fresh password and code instead
// of a new record.
func (s *Service) SignUp(ctx context.Context, username, email, password string, userType models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if !userType.Valid() {
		userType = models.RoleClient
	}

	var byUsername models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&byUsername).Error
	if err == nil && byUsername.IsVerified {
		return nil, apperr.New(apperr.KindConflict, "Username is already taken")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindDependency, "Error during sign-up process", err)
	}

	code := utils.VerificationCode()
	expiry := time.Now().Add(verifyCodeTTL)

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error during sign-up process", err)
	}

	var user models.User
	err = s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case err == nil && user.IsVerified:
		return nil, apperr.New(apperr.KindConflict, "User already exists with this email")
	case err == nil:
		// Unverified re-signup: refresh credentials and code.
		user.Password = hashed
		user.VerifyCode = code
		user.VerifyCodeExpiry = expiry
		if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindDependency, "Error during sign-up process", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:         username,
			Email:            email,
			Password:         hashed,
			VerifyCode:       code,
			VerifyCodeExpiry: expiry,
			IsVerified:       false,
			UserType:         userType,
		}
		if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperr.New(apperr.KindConflict, "Username is already taken")
			}
			return nil, apperr.Wrap(apperr.KindDependency, "Error during sign-up process", err)
		}
	default:
		return nil, apperr.Wrap(apperr.KindDependency, "Error during sign-up process", err)
	}

	if err := s.Mailer.SendVerificationCode(email, username, code); err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Failed to send verification email", err)
	}
	return &user, nil
}

// Verify promotes the user when the supplied code matches and has not
// expired.
func (s *Service) Verify(ctx context.Context, username, code string) error {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindDependency, "Error verifying account", err)
	}

	if user.VerifyCode != strings.TrimSpace(code) {
		return apperr.Validation(map[string][]string{"code": {"Incorrect verification code"}})
	}
	if time.Now().After(user.VerifyCodeExpiry) {
		return apperr.Validation(map[string][]string{"code": {"Verification code has expired, please sign up again"}})
	}

	if err := s.DB.WithContext(ctx).Model(&user).Update("is_verified", true).Error; err != nil {
		return apperr.Wrap(apperr.KindDependency, "Error verifying account", err)
	}
	return nil
}

// Authenticate resolves identifier (username or email) and compares the
// password. Every failure mode reports the same unauthorized kind.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindUnauthorized, "Incorrect username or password")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Error during login", err)
	}

	if !user.IsVerified {
		return nil, apperr.New(apperr.KindUnauthorized, "Please verify your account before logging in")
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, apperr.New(apperr.KindUnauthorized, "Incorrect username or password")
	}
	return &user, nil
}

// Role returns the user's current account type.
func (s *Service) Role(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Select("user_type").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindDependency, "Error fetching user type", err)
	}
	return user.UserType, nil
}

// ToggleRole flips client <-> freelancer and persists the new value.
// Concurrent toggles are last-write-wins.
func (s *Service) ToggleRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindDependency, "Error updating account type", err)
	}

	next := user.UserType.Toggled()
	if err := s.DB.WithContext(ctx).Model(&user).Update("user_type", next).Error; err != nil {
		return "", apperr.Wrap(apperr.KindDependency, "Error updating account type", err)
	}
	return next, nil
}
