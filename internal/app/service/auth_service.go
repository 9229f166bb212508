package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz_week/internal/common"
	"quiz_week/internal/common/security"
	"quiz_week/internal/domain/model"
	"quiz_week/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type SignupRequest struct {
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	USN           string       `json:"usn"`
	College       string       `json:"college"`
	Branch        model.Branch `json:"branch"`
	YearOfPassing int          `json:"year_of_passing"`
	Password      string       `json:"password"`
}

type LoginRequest struct {
	LoginField string `json:"login_field"` // Can be username or email
	Password   string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.USN == "" || req.Password == "" {
		return nil, common.Errorf("username, email, usn and password are required: %w", common.ErrBadRequest)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, common.Errorf("invalid email address: %w", common.ErrValidation)
	}
	if req.Branch == "" {
		req.Branch = model.BranchOther
	}
	if !req.Branch.Valid() {
		return nil, common.Errorf("unknown branch %q: %w", req.Branch, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		USN:            strings.ToUpper(req.USN),
		College:        req.College,
		Branch:         req.Branch,
		YearOfPassing:  req.YearOfPassing,
		Role:           model.RoleStudent, // Default role
		HashedPassword: hashedPassword,
		IsActive:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on duplicate username/email/usn
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.LoginField == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	var user *model.User
	var err error

	// Try finding by email first, then by username
	user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(req.LoginField))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
		}
	}

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, common.Errorf("account is deactivated: %w", common.ErrForbidden)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}
