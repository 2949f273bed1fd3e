package port

import (
	"context"
	"fmt"
	"strings"
)

// EmailSender dispatches one email. Recipient strings are comma-separated
// lists. A send can fail for some recipients only; implementations report
// that with FailedRecipientsError so callers can distinguish a partial
// failure from a transport failure.
type EmailSender interface {
	SendMail(ctx context.Context, body, to, subject, cc string) error
}

// FailedRecipientsError reports that the message was handed to the transport
// but one or more mailboxes rejected it.
type FailedRecipientsError struct {
	Recipients []string
	Err        error
}

func (e *FailedRecipientsError) Error() string {
	return fmt.Sprintf("mailbox unavailable for %s", strings.Join(e.Recipients, ","))
}

func (e *FailedRecipientsError) Unwrap() error {
	return e.Err
}

// UserResolver resolves the acting user for notification cc lists and
// substitution values.
type UserResolver interface {
	GetLoggedInUserEmail(ctx context.Context) string
	GetSimulatedUserEmail(ctx context.Context) string
}

// QueuePublisher hands a payload to the outbound queue for asynchronous
// processing. Fire-and-forget: the transport owns retry semantics.
type QueuePublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
