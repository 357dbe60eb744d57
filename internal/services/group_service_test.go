package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Gopher0727/GroupChat/internal/models"
	"github.com/Gopher0727/GroupChat/internal/repositories"
	"github.com/Gopher0727/GroupChat/internal/services"
)

const (
	ownerID  = "owner-id"
	memberID = "member-id"
	groupID  = uint(7)
)

func ownedGroup() *models.Group {
	return &models.Group{ID: groupID, Name: "g1", CreatedBy: ownerID, CreatedAt: time.Now()}
}

func TestGroupService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("sanitizes the name before the uniqueness check", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil)
		f.groups.EXPECT().ExistsByName(gomock.Any(), "a &lt;b&gt;").Return(false, nil)
		f.groups.EXPECT().CreateWithOwner(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, g *models.Group) error {
				g.ID = 1
				return nil
			})

		group, err := f.groupSvc.Create(ctx, "  a <b> ", ownerID)
		require.NoError(t, err)
		assert.Equal(t, uint(1), group.ID)
		assert.Equal(t, "a &lt;b&gt;", group.Name)
		assert.Equal(t, ownerID, group.CreatedBy)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.groupSvc.Create(ctx, " ", ownerID)
		assert.ErrorIs(t, err, services.ErrGroupNameRequired)

		_, err = f.groupSvc.Create(ctx, "g1", "")
		assert.ErrorIs(t, err, services.ErrUserIDRequired)
	})

	t.Run("owner not found", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(false, nil)

		_, err := f.groupSvc.Create(ctx, "g1", ownerID)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("name taken", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil)
		f.groups.EXPECT().ExistsByName(gomock.Any(), "g1").Return(true, nil)

		_, err := f.groupSvc.Create(ctx, "g1", ownerID)
		assert.ErrorIs(t, err, services.ErrGroupNameTaken)
	})

	t.Run("name taken concurrently", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil)
		f.groups.EXPECT().ExistsByName(gomock.Any(), "g1").Return(false, nil)
		f.groups.EXPECT().CreateWithOwner(gomock.Any(), gomock.Any()).Return(repositories.ErrDuplicateKey)

		_, err := f.groupSvc.Create(ctx, "g1", ownerID)
		assert.ErrorIs(t, err, services.ErrGroupNameTaken)
	})
}

func TestGroupService_List(t *testing.T) {
	f := newFixture(t)
	f.groups.EXPECT().List(gomock.Any(), 2, 2).Return([]models.Group{
		{ID: 3, Name: "c", CreatedBy: ownerID},
		{ID: 4, Name: "d", CreatedBy: ownerID},
	}, int64(5), nil)

	list, err := f.groupSvc.List(context.Background(), services.NewPage(2, 2))
	require.NoError(t, err)
	require.Len(t, list.Groups, 2)
	assert.Equal(t, "c", list.Groups[0].Name)
	assert.EqualValues(t, 5, list.Pagination.TotalGroups)
	assert.Equal(t, 3, list.Pagination.TotalPages)
	assert.True(t, list.Pagination.HasNextPage)
	assert.True(t, list.Pagination.HasPreviousPage)
}

func TestGroupService_Join(t *testing.T) {
	ctx := context.Background()

	expectUserAndGroup := func(f *fixture) {
		f.users.EXPECT().Exists(gomock.Any(), memberID).Return(true, nil)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)
	}

	t.Run("joins", func(t *testing.T) {
		f := newFixture(t)
		expectUserAndGroup(f)
		f.members.EXPECT().Exists(gomock.Any(), groupID, memberID).Return(false, nil)
		f.members.EXPECT().Add(gomock.Any(), groupID, memberID).Return(nil)

		res, err := f.groupSvc.Join(ctx, groupID, memberID)
		require.NoError(t, err)
		assert.False(t, res.AlreadyMember)
	})

	t.Run("already a member", func(t *testing.T) {
		f := newFixture(t)
		expectUserAndGroup(f)
		f.members.EXPECT().Exists(gomock.Any(), groupID, memberID).Return(true, nil)

		res, err := f.groupSvc.Join(ctx, groupID, memberID)
		require.NoError(t, err)
		assert.True(t, res.AlreadyMember)
	})

	t.Run("concurrent join reported as already a member", func(t *testing.T) {
		f := newFixture(t)
		expectUserAndGroup(f)
		f.members.EXPECT().Exists(gomock.Any(), groupID, memberID).Return(false, nil)
		f.members.EXPECT().Add(gomock.Any(), groupID, memberID).Return(repositories.ErrDuplicateKey)

		res, err := f.groupSvc.Join(ctx, groupID, memberID)
		require.NoError(t, err)
		assert.True(t, res.AlreadyMember)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), memberID).Return(false, nil)

		_, err := f.groupSvc.Join(ctx, groupID, memberID)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("group not found", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), memberID).Return(true, nil)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(nil, repositories.ErrRecordNotFound)

		_, err := f.groupSvc.Join(ctx, groupID, memberID)
		assert.ErrorIs(t, err, services.ErrGroupNotFound)
	})

	t.Run("missing user id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.groupSvc.Join(ctx, groupID, "")
		assert.ErrorIs(t, err, services.ErrUserIDRequired)
	})
}

func TestGroupService_RemoveMember(t *testing.T) {
	ctx := context.Background()

	expectUsersAndGroup := func(f *fixture, target string) {
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil)
		f.users.EXPECT().Exists(gomock.Any(), target).Return(true, nil)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)
	}

	t.Run("removes a member", func(t *testing.T) {
		f := newFixture(t)
		expectUsersAndGroup(f, memberID)
		f.members.EXPECT().Exists(gomock.Any(), groupID, memberID).Return(true, nil)
		f.members.EXPECT().Remove(gomock.Any(), groupID, memberID).Return(true, nil)

		require.NoError(t, f.groupSvc.RemoveMember(ctx, groupID, memberID, ownerID))
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil).Times(2)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)
		f.members.EXPECT().Exists(gomock.Any(), groupID, ownerID).Return(true, nil)

		err := f.groupSvc.RemoveMember(ctx, groupID, ownerID, ownerID)
		assert.ErrorIs(t, err, services.ErrCannotRemoveOwner)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("requester is not the owner", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), memberID).Return(true, nil)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)

		// 非群主尝试移除群主，先因为不是群主被拒绝
		err := f.groupSvc.RemoveMember(ctx, groupID, ownerID, memberID)
		assert.ErrorIs(t, err, services.ErrNotOwnerRemove)
	})

	t.Run("target is not a member", func(t *testing.T) {
		f := newFixture(t)
		expectUsersAndGroup(f, memberID)
		f.members.EXPECT().Exists(gomock.Any(), groupID, memberID).Return(false, nil)

		err := f.groupSvc.RemoveMember(ctx, groupID, memberID, ownerID)
		assert.ErrorIs(t, err, services.ErrTargetNotMember)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("check order: owner, target, group", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(false, nil)
		err := f.groupSvc.RemoveMember(ctx, groupID, memberID, ownerID)
		assert.ErrorIs(t, err, services.ErrOwnerNotFound)

		f = newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), ownerID).Return(true, nil)
		f.users.EXPECT().Exists(gomock.Any(), memberID).Return(false, nil)
		err = f.groupSvc.RemoveMember(ctx, groupID, memberID, ownerID)
		assert.ErrorIs(t, err, services.ErrTargetUserNotFound)

		f = newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(nil, repositories.ErrRecordNotFound)
		err = f.groupSvc.RemoveMember(ctx, groupID, memberID, ownerID)
		assert.ErrorIs(t, err, services.ErrGroupNotFound)
	})

	t.Run("missing ids", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.groupSvc.RemoveMember(ctx, groupID, "", ownerID), services.ErrRemoveIDRequired)
		assert.ErrorIs(t, f.groupSvc.RemoveMember(ctx, groupID, memberID, ""), services.ErrOwnerIDRequired)
	})

	t.Run("membership vanished between check and delete", func(t *testing.T) {
		f := newFixture(t)
		expectUsersAndGroup(f, memberID)
		f.members.EXPECT().Exists(gomock.Any(), groupID, memberID).Return(true, nil)
		f.members.EXPECT().Remove(gomock.Any(), groupID, memberID).Return(false, nil)

		err := f.groupSvc.RemoveMember(ctx, groupID, memberID, ownerID)
		assert.ErrorIs(t, err, services.ErrMemberRemoveFailed)
		assert.ErrorIs(t, err, services.ErrInternal)
	})
}

func TestGroupService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		f := newFixture(t)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)
		f.groups.EXPECT().DeleteCascade(gomock.Any(), groupID).Return(nil)

		require.NoError(t, f.groupSvc.Delete(ctx, groupID, ownerID))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)

		err := f.groupSvc.Delete(ctx, groupID, memberID)
		assert.ErrorIs(t, err, services.ErrNotOwnerDelete)
	})

	t.Run("group not found", func(t *testing.T) {
		f := newFixture(t)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(nil, repositories.ErrRecordNotFound)

		err := f.groupSvc.Delete(ctx, groupID, ownerID)
		assert.ErrorIs(t, err, services.ErrGroupNotFound)
	})

	t.Run("cascade removed nothing", func(t *testing.T) {
		f := newFixture(t)
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)
		f.groups.EXPECT().DeleteCascade(gomock.Any(), groupID).Return(repositories.ErrRecordNotFound)

		err := f.groupSvc.Delete(ctx, groupID, ownerID)
		assert.ErrorIs(t, err, services.ErrGroupDeleteFailed)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("connection reset")
		f.groups.EXPECT().GetByID(gomock.Any(), groupID).Return(ownedGroup(), nil)
		f.groups.EXPECT().DeleteCascade(gomock.Any(), groupID).Return(boom)

		err := f.groupSvc.Delete(ctx, groupID, ownerID)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing user id", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.groupSvc.Delete(ctx, groupID, ""), services.ErrUserIDRequired)
	})
}
