package worker

import (
	"github.com/spec-kit/miniticket/internal/service"
)

// StartNotificationWorker registers notification handlers. Delivery is
// synchronous with the publishing request; this only wires subscriptions.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
