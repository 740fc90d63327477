package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vmplane/vmplane/internal/db/models"
)

type UserRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) TestCreateAndGetByUsername() {
	user := &models.User{Username: "operator", PasswordHash: "$2a$10$notarealhash"}
	s.NoError(s.userRepo.Create(s.ctx, user))
	s.NotZero(user.ID)

	found, err := s.userRepo.GetByUsername(s.ctx, "operator")
	s.NoError(err)
	s.Equal(user.ID, found.ID)
	s.Equal(user.PasswordHash, found.PasswordHash)
}

func (s *UserRepositoryTestSuite) TestGetByUsernameNotFound() {
	_, err := s.userRepo.GetByUsername(s.ctx, "nobody")
	s.Error(err)
	s.Contains(err.Error(), "not found")
}
