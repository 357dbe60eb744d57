package services_test

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Gopher0727/GroupChat/config"
	"github.com/Gopher0727/GroupChat/internal/repositories"
	"github.com/Gopher0727/GroupChat/internal/services"
	"github.com/Gopher0727/GroupChat/internal/storage"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

type groupModel struct {
	owner    string
	members  map[string]bool
	messages int
}

// lifecycleMachine 在真实 SQLite 存储上运行服务，与内存模型对照
type lifecycleMachine struct {
	ctx      context.Context
	users    []string
	groups   map[uint]*groupModel
	nextName int

	auth    *services.MembershipService
	group   *services.GroupService
	message *services.MessageService
	closeDB func()
}

func newLifecycleMachine(t *rapid.T) *lifecycleMachine {
	log := logger.NewNop()
	db, err := storage.InitDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}, log)
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	sqlDB, _ := db.DB()

	userRepo := repositories.NewUserRepository(db, nil, 0)
	groupRepo := repositories.NewGroupRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	auth := services.NewMembershipService(userRepo, groupRepo, memberRepo, log)

	m := &lifecycleMachine{
		ctx:     context.Background(),
		groups:  make(map[uint]*groupModel),
		auth:    auth,
		group:   services.NewGroupService(groupRepo, memberRepo, auth, log),
		message: services.NewMessageService(repositories.NewMessageRepository(db), auth, log),
		closeDB: func() { sqlDB.Close() },
	}

	userSvc := services.NewUserService(userRepo, log)
	for i := range 3 {
		u, err := userSvc.Register(m.ctx, fmt.Sprintf("user%d", i))
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		m.users = append(m.users, u.ID)
	}
	return m
}

func (m *lifecycleMachine) drawGroup(t *rapid.T) (uint, *groupModel) {
	if len(m.groups) == 0 {
		t.Skip("no groups yet")
	}
	ids := lo.Keys(m.groups)
	slices.Sort(ids)
	id := rapid.SampledFrom(ids).Draw(t, "group")
	return id, m.groups[id]
}

func (m *lifecycleMachine) drawUser(t *rapid.T, label string) string {
	return rapid.SampledFrom(m.users).Draw(t, label)
}

func (m *lifecycleMachine) create(t *rapid.T) {
	owner := m.drawUser(t, "owner")
	m.nextName++

	group, err := m.group.Create(m.ctx, fmt.Sprintf("group-%d", m.nextName), owner)
	require.NoError(t, err)
	m.groups[group.ID] = &groupModel{owner: owner, members: map[string]bool{owner: true}}
}

func (m *lifecycleMachine) join(t *rapid.T) {
	id, g := m.drawGroup(t)
	user := m.drawUser(t, "user")

	res, err := m.group.Join(m.ctx, id, user)
	require.NoError(t, err)
	assert.Equal(t, g.members[user], res.AlreadyMember)
	g.members[user] = true
}

func (m *lifecycleMachine) remove(t *rapid.T) {
	id, g := m.drawGroup(t)
	requester := m.drawUser(t, "requester")
	target := m.drawUser(t, "target")

	err := m.group.RemoveMember(m.ctx, id, target, requester)
	switch {
	case requester != g.owner:
		assert.ErrorIs(t, err, services.ErrNotOwnerRemove)
	case !g.members[target]:
		assert.ErrorIs(t, err, services.ErrTargetNotMember)
	case target == g.owner:
		assert.ErrorIs(t, err, services.ErrCannotRemoveOwner)
	default:
		require.NoError(t, err)
		delete(g.members, target)
	}
}

func (m *lifecycleMachine) post(t *rapid.T) {
	id, g := m.drawGroup(t)
	user := m.drawUser(t, "user")

	_, err := m.message.Post(m.ctx, id, user, "hello")
	if g.members[user] {
		require.NoError(t, err)
		g.messages++
	} else {
		assert.ErrorIs(t, err, services.ErrNotMember)
	}
}

func (m *lifecycleMachine) list(t *rapid.T) {
	id, g := m.drawGroup(t)
	user := m.drawUser(t, "user")
	limit := rapid.IntRange(1, services.MaxPageLimit).Draw(t, "limit")

	list, err := m.message.ListByGroup(m.ctx, id, user, services.NewPage(1, limit))
	if !g.members[user] {
		assert.ErrorIs(t, err, services.ErrNotMember)
		return
	}
	require.NoError(t, err)
	assert.EqualValues(t, g.messages, list.Pagination.TotalMessages)
	assert.Len(t, list.Messages, min(g.messages, limit))
	assert.Equal(t, list.Pagination.CurrentPage < list.Pagination.TotalPages, list.Pagination.HasNextPage)
}

func (m *lifecycleMachine) deleteGroup(t *rapid.T) {
	id, g := m.drawGroup(t)
	requester := m.drawUser(t, "requester")

	err := m.group.Delete(m.ctx, id, requester)
	if requester != g.owner {
		assert.ErrorIs(t, err, services.ErrNotOwnerDelete)
		return
	}
	require.NoError(t, err)
	delete(m.groups, id)

	_, err = m.message.ListByGroup(m.ctx, id, requester, services.NewPage(1, 20))
	assert.ErrorIs(t, err, services.ErrGroupNotFound)
}

// check 群主始终是成员，成员关系与模型一致
func (m *lifecycleMachine) check(t *rapid.T) {
	for id, g := range m.groups {
		for _, user := range m.users {
			ok, err := m.auth.IsMember(m.ctx, user, id)
			require.NoError(t, err)
			assert.Equal(t, g.members[user], ok, "group %d user %s", id, user)
		}
		owner, err := m.auth.IsOwner(m.ctx, g.owner, id)
		require.NoError(t, err)
		assert.True(t, owner)
		assert.True(t, g.members[g.owner])
	}
}

func TestMembershipLifecycle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := newLifecycleMachine(t)
		defer m.closeDB()

		t.Repeat(map[string]func(*rapid.T){
			"create": m.create,
			"join":   m.join,
			"remove": m.remove,
			"post":   m.post,
			"list":   m.list,
			"delete": m.deleteGroup,
			"":       m.check,
		})
	})
}
