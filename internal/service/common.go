package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// storageError converts a port failure into a DomainError. Missing records
// become NOT_FOUND for the named resource and anything unrecognised is a
// backend failure.
func storageError(err error, resource string, details map[string]any) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.NewStorageUnavailable(err)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func userActor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func idActor(userID string) events.Actor {
	return events.Actor{UserID: userID}
}
