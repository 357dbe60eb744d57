package services_test

import (
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Gopher0727/GroupChat/internal/mocks"
	"github.com/Gopher0727/GroupChat/internal/services"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

type fixture struct {
	users    *mocks.MockUserRepository
	groups   *mocks.MockGroupRepository
	members  *mocks.MockMemberRepository
	messages *mocks.MockMessageRepository

	userSvc    *services.UserService
	groupSvc   *services.GroupService
	messageSvc *services.MessageService
	auth       *services.MembershipService
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	log := logger.NewNop()

	f := &fixture{
		users:    mocks.NewMockUserRepository(ctrl),
		groups:   mocks.NewMockGroupRepository(ctrl),
		members:  mocks.NewMockMemberRepository(ctrl),
		messages: mocks.NewMockMessageRepository(ctrl),
	}
	f.auth = services.NewMembershipService(f.users, f.groups, f.members, log)
	f.userSvc = services.NewUserService(f.users, log)
	f.groupSvc = services.NewGroupService(f.groups, f.members, f.auth, log)
	f.messageSvc = services.NewMessageService(f.messages, f.auth, log)
	return f
}
