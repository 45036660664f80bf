package dto

import (
	"github.com/upassistify/upassistify/internal/domain/user"
	"github.com/upassistify/upassistify/internal/types"
)

type UserResponse struct {
	*user.Profile
	DisplayName string `json:"display_name"`
}

func NewUserResponse(p *user.Profile) *UserResponse {
	return &UserResponse{Profile: p, DisplayName: p.DisplayName()}
}

type ListUsersResponse = types.ListResponse[*UserResponse]
