package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/user"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

const adminRequiredMessage = "Unauthorized: Admin access required"

// UserService exposes account profiles and role checks
type UserService interface {
	// RequireAdmin fails unless the caller in ctx holds the configured admin role
	RequireAdmin(ctx context.Context) error
	ListUsers(ctx context.Context, filter *types.QueryFilter) (*dto.ListUsersResponse, error)
}

type userService struct {
	ServiceParams
}

func NewUserService(params ServiceParams) UserService {
	return &userService{ServiceParams: params}
}

func (s *userService) RequireAdmin(ctx context.Context) error {
	return requireAdmin(ctx, s.ServiceParams)
}

func requireAdmin(ctx context.Context, p ServiceParams) error {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return ierr.NewError("no authenticated user in context").
			WithHint(adminRequiredMessage).
			Mark(ierr.ErrUnauthenticated)
	}

	ok, err := p.RoleRepo.HasRole(ctx, userID, p.Config.Auth.AdminRole)
	if err != nil {
		p.Logger.Errorw("failed to check admin role", "user_id", userID, "error", err)
		return err
	}

	if !ok {
		p.Logger.Warnw("admin access denied", "user_id", userID)
		return ierr.NewErrorf("user %s is not an admin", userID).
			WithHint(adminRequiredMessage).
			Mark(ierr.ErrPermissionDenied)
	}

	return nil
}

func (s *userService) ListUsers(ctx context.Context, filter *types.QueryFilter) (*dto.ListUsersResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	profiles, err := s.ProfileRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ProfileRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListUsersResponse{
		Items:  lo.Map(profiles, func(p *user.Profile, _ int) *dto.UserResponse { return dto.NewUserResponse(p) }),
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}
