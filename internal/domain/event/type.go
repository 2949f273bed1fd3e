package event

// Type identifies the type of domain event
type Type string

const (
	TypeStatusChanged         Type = "letter.status_changed"
	TypeLetterReleased        Type = "letter.released"
	TypeNotificationSent      Type = "notification.sent"
	TypeNotificationFailed    Type = "notification.failed"
	TypeNotificationProcessed Type = "notification.processed"
	TypeTaskCompleted         Type = "task.completed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeStatusChanged,
		TypeLetterReleased,
		TypeNotificationSent,
		TypeNotificationFailed,
		TypeNotificationProcessed,
		TypeTaskCompleted:
		return true
	default:
		return false
	}
}
