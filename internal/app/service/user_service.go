package service

import (
	"context"
	"fmt"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
	"quiz_week/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	College       *string       `json:"college,omitempty"`
	Branch        *model.Branch `json:"branch,omitempty"`
	YearOfPassing *int          `json:"year_of_passing,omitempty"`
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.College != nil {
		user.College = *req.College
	}
	if req.Branch != nil {
		if !req.Branch.Valid() {
			return nil, common.Errorf("unknown branch %q: %w", *req.Branch, common.ErrValidation)
		}
		user.Branch = *req.Branch
	}
	if req.YearOfPassing != nil {
		user.YearOfPassing = *req.YearOfPassing
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

// SetUserActive soft-deactivates or reactivates an account; rows are
// never physically deleted.
func (s *UserService) SetUserActive(ctx context.Context, userID string, active bool) error {
	return s.userRepo.SetActive(ctx, userID, active)
}
