package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pollboard/internal/domain"
	apperrors "pollboard/pkg/errors"
)

func newTestUserService(t *testing.T) (UserService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	topics := newFakeTopicRepo("t1")
	return NewUserService(users, topics, 4, zap.NewNop()), users
}

func seedUser(t *testing.T, users *fakeUserRepo, username, email string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), 4)
	require.NoError(t, err)

	user := &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		EmailVerified: true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Get(context.Background(), "missing")

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestUserService_Update_Fields(t *testing.T) {
	svc, users := newTestUserService(t)
	user := seedUser(t, users, "alice", "alice@example.com")

	username := "alice_two"
	topicIDs := []string{"t1"}
	updated, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Username: &username,
		TopicIDs: &topicIDs,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice_two", updated.Username)
	assert.Equal(t, []string{"t1"}, updated.TopicIDs)
	// Untouched fields survive the update
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUserService_Update_UsernameConflict(t *testing.T) {
	svc, users := newTestUserService(t)
	user := seedUser(t, users, "alice", "alice@example.com")
	seedUser(t, users, "bob", "bob@example.com")

	username := "bob"
	_, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Username: &username,
	})

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Equal(t, "username", appErr.Details["field"])
}

func TestUserService_Update_SameUsernameNoConflict(t *testing.T) {
	svc, users := newTestUserService(t)
	user := seedUser(t, users, "alice", "alice@example.com")

	// Re-submitting the current username must not trip the uniqueness check
	username := "alice"
	updated, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Username: &username,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	svc, users := newTestUserService(t)
	user := seedUser(t, users, "alice", "alice@example.com")
	oldHash := user.PasswordHash

	password := "new-password"
	updated, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Password: &password,
	})
	require.NoError(t, err)

	assert.NotEqual(t, oldHash, updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")))
}

func TestUserService_Update_UnknownTopic(t *testing.T) {
	svc, users := newTestUserService(t)
	user := seedUser(t, users, "alice", "alice@example.com")

	topicIDs := []string{"missing"}
	_, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		TopicIDs: &topicIDs,
	})

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestUserService_Delete(t *testing.T) {
	svc, users := newTestUserService(t)
	user := seedUser(t, users, "alice", "alice@example.com")

	require.NoError(t, svc.Delete(context.Background(), user.ID))

	err := svc.Delete(context.Background(), user.ID)
	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}
