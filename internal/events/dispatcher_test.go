package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventEnrollmentCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.SubjectID)
		return errors.New("boom")
	})
	d.Subscribe(EventEnrollmentCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventReviewSubmitted, func(context.Context, Event) error {
		calls = append(calls, "review")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventEnrollmentCreated, SubjectID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:s1", "second:s1"}, calls)
}

func TestDispatcherWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventMessageSent}))
}
