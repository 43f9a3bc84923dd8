package worker

import (
	"github.com/tutorhub/tutor-marketplace/internal/service"
)

// StartNotificationWorker subscribes the notification service to marketplace
// events. Delivery runs inline with the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
