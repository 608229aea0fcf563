package enums

import "fmt"

// NotificationType maps to the notification_type column in Postgres.
type NotificationType string

const (
	NotificationTypeAssignmentAlert    NotificationType = "assignment_alert"
	NotificationTypePickupAlert        NotificationType = "pickup_alert"
	NotificationTypeReviewPrompt       NotificationType = "review_prompt"
	NotificationTypeSystemAnnouncement NotificationType = "system_announcement"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeAssignmentAlert,
	NotificationTypePickupAlert,
	NotificationTypeReviewPrompt,
	NotificationTypeSystemAnnouncement,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
