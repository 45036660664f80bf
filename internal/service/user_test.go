package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/upassistify/upassistify/internal/domain/user"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/testutil"
	"github.com/upassistify/upassistify/internal/types"
)

type UserServiceSuite struct {
	testutil.BaseServiceTestSuite
	service UserService
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewUserService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *UserServiceSuite) TestRequireAdmin() {
	s.NoError(s.service.RequireAdmin(s.GetContext()))

	err := s.service.RequireAdmin(testutil.WithUser(s.GetContext(), "user_plain", "plain@example.com"))
	s.True(ierr.IsPermissionDenied(err))
	s.Equal("Unauthorized: Admin access required", ierr.DisplayMessage(err, ""))

	err = s.service.RequireAdmin(testutil.WithUser(s.GetContext(), "", ""))
	s.True(ierr.IsUnauthenticated(err))
}

func (s *UserServiceSuite) TestListUsers() {
	repo := s.GetStores().ProfileRepo
	s.Require().NoError(repo.Create(s.GetContext(), &user.Profile{
		ID:        "user_old",
		Email:     "old@example.com",
		FullName:  lo.ToPtr("Old Timer"),
		PlanType:  types.PlanTypeLifetime,
		CreatedAt: s.GetNow().Add(-time.Hour),
	}))
	s.Require().NoError(repo.Create(s.GetContext(), &user.Profile{
		ID:        "user_new",
		Email:     "newbie@example.com",
		PlanType:  types.PlanTypeFree,
		CreatedAt: s.GetNow(),
	}))

	resp, err := s.service.ListUsers(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, resp.Total)
	s.Require().Len(resp.Items, 2)
	s.Equal("user_new", resp.Items[0].ID)
	s.Equal("newbie", resp.Items[0].DisplayName)
	s.Equal("Old Timer", resp.Items[1].DisplayName)

	_, err = s.service.ListUsers(s.GetContext(), &types.QueryFilter{Limit: 5000})
	s.True(ierr.IsValidation(err))
}
