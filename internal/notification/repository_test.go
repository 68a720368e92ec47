package notification

import (
	"context"
	"errors"
	"testing"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/platform/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo Repository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	db, err := database.NewSQLite(":memory:", zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(database.AutoMigrate(db, &Notification{}))
	s.repo = NewGORMRepository(db)
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) create(userID uuid.UUID, msg string) *Notification {
	n := &Notification{UserID: userID, Type: DonationReceived, Message: msg}
	s.Require().NoError(s.repo.Create(s.ctx, n))
	return n
}

func (s *RepositoryTestSuite) TestGetByUserIDIsScopedAndPaginated() {
	userID := uuid.New()
	s.create(userID, "one")
	s.create(userID, "two")
	s.create(uuid.New(), "someone else")

	items, pagination, err := s.repo.GetByUserID(s.ctx, userID, 1, 1)
	s.Require().NoError(err)
	s.Len(items, 1)
	s.Equal(int64(2), pagination.TotalItems)
	s.Equal(2, pagination.TotalPages)
}

func (s *RepositoryTestSuite) TestMarkAsReadRequiresOwnership() {
	owner := uuid.New()
	n := s.create(owner, "hello")

	err := s.repo.MarkAsRead(s.ctx, n.ID, uuid.New())
	s.True(errors.Is(err, common.ErrNotFound))

	s.Require().NoError(s.repo.MarkAsRead(s.ctx, n.ID, owner))
	s.Require().NoError(s.repo.MarkAsRead(s.ctx, n.ID, owner))

	found, err := s.repo.FindByID(s.ctx, n.ID, owner)
	s.Require().NoError(err)
	s.True(found.IsRead)
}

func (s *RepositoryTestSuite) TestMarkAllAsReadCountsOnlyUnread() {
	owner := uuid.New()
	first := s.create(owner, "a")
	s.create(owner, "b")
	s.create(owner, "c")
	s.Require().NoError(s.repo.MarkAsRead(s.ctx, first.ID, owner))

	count, err := s.repo.MarkAllAsRead(s.ctx, owner)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	count, err = s.repo.MarkAllAsRead(s.ctx, owner)
	s.Require().NoError(err)
	s.Zero(count)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
