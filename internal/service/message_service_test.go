package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/repository/memory"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

func TestSendAndReadConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")
	tara, _ := env.tutor(t, "Tara Tutor")

	_, err := env.messages.Send(ctx, ann, tara.ID, "Hi, are you free on Monday?")
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, tara, ann.ID, "Yes, 10am works.")
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, ann, tara.ID, "Great!")
	require.NoError(t, err)

	thread, err := env.messages.Conversation(ctx, tara.ID, ann.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "Hi, are you free on Monday?", thread[0].Body)
	assert.Equal(t, "Great!", thread[2].Body)

	conversations, err := env.messages.Conversations(ctx, tara.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, ann.ID, conversations[0].Peer.ID)
	assert.Equal(t, "Great!", conversations[0].LastMessage.Body)
	assert.Equal(t, 2, conversations[0].Unread)

	require.NoError(t, env.messages.MarkRead(ctx, tara.ID, ann.ID))
	conversations, err = env.messages.Conversations(ctx, tara.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, conversations[0].Unread)

	unread, err := env.notifications.UnreadCount(ctx, tara.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	items, err := env.notifications.List(ctx, tara.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, domain.NotificationMessage, item.Type)
		assert.Contains(t, item.Message, "Ann")
	}
}

func TestSendValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")

	_, err := env.messages.Send(ctx, ann, ann.ID, "hello me")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))

	_, err = env.messages.Send(ctx, ann, "missing", "hello")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	bob := env.student(t, "Bob")
	_, err = env.messages.Send(ctx, ann, bob.ID, "   ")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestNotificationReadState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.student(t, "Ann")
	bob := env.student(t, "Bob")

	for _, body := range []string{"one", "two", "three"} {
		_, err := env.messages.Send(ctx, bob, ann.ID, body)
		require.NoError(t, err)
	}
	items, err := env.notifications.List(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NoError(t, env.notifications.MarkRead(ctx, ann.ID, items[0].ID))
	unread, err := env.notifications.UnreadCount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	err = env.notifications.MarkRead(ctx, bob.ID, items[1].ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	require.NoError(t, env.notifications.MarkAllRead(ctx, ann.ID))
	unread, err = env.notifications.UnreadCount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotifyDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.notifications.cfg.Enabled = false
	ctx := context.Background()
	ann := env.student(t, "Ann")

	notification, err := env.notifications.Notify(ctx, ann.ID, domain.NotificationMessage, "t", "m", "")
	require.NoError(t, err)
	assert.Nil(t, notification)

	items, err := env.notifications.List(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, env.publisher.channels())
}

func TestNotifyDeliversInAppOnly(t *testing.T) {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(NotificationDependencies{
		NotificationRepo: store.Notifications(),
		TutorRepo:        store.Tutors(),
		Publisher:        publisher,
	}, zap.New(core), config.NotificationConfig{Enabled: true})
	ctx := context.Background()

	notification, err := svc.Notify(ctx, "user-1", domain.NotificationMessage, "New message", "hello", "")
	require.NoError(t, err)
	require.NotNil(t, notification)

	items, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, []string{"notifications:user-1"}, publisher.channels())
	assert.Zero(t, logs.Len())
}
