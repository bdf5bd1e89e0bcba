package service

import (
	"context"
	"testing"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReferralService(t *testing.T) (ReferralService, *MockUserStore) {
	t.Helper()
	userStore := new(MockUserStore)
	svc, err := NewReferralService(userStore, &fakeTransactor{}, newTestLogger())
	require.NoError(t, err)
	return svc, userStore
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser(uuid.New())
	require.NoError(t, err)
	return user
}

func TestReferralService_RegisterUser(t *testing.T) {
	svc, userStore := newReferralService(t)

	id := uuid.New()
	userStore.On("Create", mock.Anything, mock.MatchedBy(
		func(u *domain.User) bool {
			return u.ID == id && u.InvitedCount == 0 && u.InviteCode == nil
		})).Return(nil)

	user, err := svc.RegisterUser(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	userStore.AssertExpectations(t)
}

func TestReferralService_RegisterUser_AlreadyRegistered(t *testing.T) {
	svc, userStore := newReferralService(t)

	existing := newTestUser(t)
	userStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrDuplicate)
	userStore.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

	user, err := svc.RegisterUser(context.Background(), existing.ID)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	userStore.AssertExpectations(t)
}

func TestReferralService_IssueInviteCode(t *testing.T) {
	svc, userStore := newReferralService(t)

	user := newTestUser(t)
	userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userStore.On("SetInviteCode", mock.Anything, user.ID, mock.AnythingOfType("string")).
		Return(nil)

	code, err := svc.IssueInviteCode(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Len(t, code, 10)
	userStore.AssertExpectations(t)
}

func TestReferralService_IssueInviteCode_AlreadyIssued(t *testing.T) {
	svc, userStore := newReferralService(t)

	user := newTestUser(t)
	require.NoError(t, user.AssignInviteCode("EXISTING11"))
	userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	code, err := svc.IssueInviteCode(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, "EXISTING11", code)
	userStore.AssertNotCalled(t, "SetInviteCode")
}

func TestReferralService_IssueInviteCode_RetriesOnCollision(t *testing.T) {
	svc, userStore := newReferralService(t)

	user := newTestUser(t)
	userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userStore.On("SetInviteCode", mock.Anything, user.ID, mock.Anything).
		Return(store.ErrInviteCodeTaken).Once()
	userStore.On("SetInviteCode", mock.Anything, user.ID, mock.Anything).
		Return(nil).Once()

	code, err := svc.IssueInviteCode(context.Background(), user.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, code)
	userStore.AssertNumberOfCalls(t, "SetInviteCode", 2)
}

func TestReferralService_IssueInviteCode_UnknownUser(t *testing.T) {
	svc, userStore := newReferralService(t)

	id := uuid.New()
	userStore.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)

	code, err := svc.IssueInviteCode(context.Background(), id)

	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.Empty(t, code)
}

func TestReferralService_AcceptInvite(t *testing.T) {
	svc, userStore := newReferralService(t)

	inviter := newTestUser(t)
	require.NoError(t, inviter.AssignInviteCode("FRIEND4U22"))
	inviteeID := uuid.New()

	userStore.On("GetByInviteCode", mock.Anything, "FRIEND4U22").Return(inviter, nil)
	userStore.On("SetReferrer", mock.Anything, inviteeID, inviter.ID).Return(nil)
	userStore.On("IncrementInvitedCount", mock.Anything, inviter.ID).Return(nil)

	err := svc.AcceptInvite(context.Background(), inviteeID, "FRIEND4U22")

	require.NoError(t, err)
	userStore.AssertExpectations(t)
}

func TestReferralService_AcceptInvite_UnknownCode(t *testing.T) {
	svc, userStore := newReferralService(t)

	userStore.On("GetByInviteCode", mock.Anything, "NOSUCHCODE").
		Return(nil, store.ErrUserNotFound)

	err := svc.AcceptInvite(context.Background(), uuid.New(), "NOSUCHCODE")

	assert.ErrorIs(t, err, ErrInvalidInviteCode)
	userStore.AssertNotCalled(t, "SetReferrer")
}

func TestReferralService_AcceptInvite_EmptyCode(t *testing.T) {
	svc, userStore := newReferralService(t)

	err := svc.AcceptInvite(context.Background(), uuid.New(), "")

	assert.ErrorIs(t, err, ErrInvalidInviteCode)
	userStore.AssertNotCalled(t, "GetByInviteCode")
}

func TestReferralService_AcceptInvite_OwnCode(t *testing.T) {
	svc, userStore := newReferralService(t)

	user := newTestUser(t)
	require.NoError(t, user.AssignInviteCode("MYOWNCODE1"))
	userStore.On("GetByInviteCode", mock.Anything, "MYOWNCODE1").Return(user, nil)

	err := svc.AcceptInvite(context.Background(), user.ID, "MYOWNCODE1")

	assert.ErrorIs(t, err, ErrSelfReferral)
	userStore.AssertNotCalled(t, "SetReferrer")
	userStore.AssertNotCalled(t, "IncrementInvitedCount")
}

func TestReferralService_AcceptInvite_AlreadyReferred(t *testing.T) {
	svc, userStore := newReferralService(t)

	inviter := newTestUser(t)
	require.NoError(t, inviter.AssignInviteCode("FRIEND4U22"))
	inviteeID := uuid.New()

	userStore.On("GetByInviteCode", mock.Anything, "FRIEND4U22").Return(inviter, nil)
	userStore.On("SetReferrer", mock.Anything, inviteeID, inviter.ID).
		Return(store.ErrDuplicate)

	err := svc.AcceptInvite(context.Background(), inviteeID, "FRIEND4U22")

	assert.ErrorIs(t, err, ErrAlreadyReferred)
	// The counter must not move when the link is rejected.
	userStore.AssertNotCalled(t, "IncrementInvitedCount")
}

func TestReferralService_AcceptInvite_UnknownInvitee(t *testing.T) {
	svc, userStore := newReferralService(t)

	inviter := newTestUser(t)
	require.NoError(t, inviter.AssignInviteCode("FRIEND4U22"))
	inviteeID := uuid.New()

	userStore.On("GetByInviteCode", mock.Anything, "FRIEND4U22").Return(inviter, nil)
	userStore.On("SetReferrer", mock.Anything, inviteeID, inviter.ID).
		Return(store.ErrUserNotFound)

	err := svc.AcceptInvite(context.Background(), inviteeID, "FRIEND4U22")

	// A never-registered invitee is a missing entity, not a repeat accept.
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyReferred)
	userStore.AssertNotCalled(t, "IncrementInvitedCount")
}
