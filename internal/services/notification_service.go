package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/veloxevents/doorman/internal/logger"
)

// NotificationService pushes operational messages (import finished, event
// auto-completed) to configured shoutrrr destinations. Delivery is
// fire-and-forget; failures are logged and never surface to callers.
type NotificationService struct {
	urls []string
}

func NewNotificationService(urls []string) *NotificationService {
	return &NotificationService{urls: urls}
}

// Send delivers title+message to every configured destination.
func (s *NotificationService) Send(title, message string) {
	if len(s.urls) == 0 {
		return
	}

	msg := fmt.Sprintf("%s\n\n%s", title, message)
	for _, url := range s.urls {
		go func(dest string) {
			if err := shoutrrr.Send(dest, msg); err != nil {
				logger.WithFields(map[string]interface{}{
					"title": title,
				}).WithError(err).Warn("failed to send notification")
			}
		}(url)
	}
}
