package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendtrack/lendtrack_backend/internal/apperrors"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/lendtrack/lendtrack_backend/internal/utils"
)

// userServiceImpl implements the UserSvcFacade interface
type userServiceImpl struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userServiceImpl{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userServiceImpl)(nil)

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	if user.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by email")
		}
		return nil, err
	}
	if user.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (s *userServiceImpl) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s is already registered: %w", email, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing user")
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userServiceImpl) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.Email == "" || !info.VerifiedEmail {
		return nil, fmt.Errorf("google account email is missing or unverified: %w", apperrors.ErrUnauthorized)
	}
	email := normalizeEmail(info.Email)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		if user.DeletedAt != nil {
			return nil, apperrors.ErrNotFound
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up google user")
		return nil, err
	}

	now := time.Now()
	created := domain.User{
		UserID: uuid.NewString(),
		Email:  email,
		Name:   info.Name,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		s.LogError(ctx, err, "Failed to save google user")
		return nil, err
	}

	s.LogInfo(ctx, "User created via google sign-in", slog.String("user_id", created.UserID))
	return &created, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != user.Name {
		user.Name = *req.Name
		updated = true
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash password")
			return nil, err
		}
		user.PasswordHash = hash
		updated = true
	}

	if !updated {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

func (s *userServiceImpl) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, expiryTime); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

func (s *userServiceImpl) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to mark user deleted", slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}

func (s *userServiceImpl) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password so callers cannot probe for accounts.
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to find user during login")
		return nil, err
	}
	if user.DeletedAt != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
