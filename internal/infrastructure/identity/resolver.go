package identity

import (
	"context"

	"github.com/seconnect/ice-backend/internal/application/port"
)

type contextKey string

const (
	userEmailKey      contextKey = "user_email"
	simulatedEmailKey contextKey = "simulated_user_email"
)

// WithUserEmail returns a context carrying the acting user's email. The HTTP
// layer sets this from the authenticated request.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// WithSimulatedUserEmail returns a context carrying the simulated-user email
// used by administrators acting on someone's behalf.
func WithSimulatedUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, simulatedEmailKey, email)
}

// Resolver implements port.UserResolver from request-context values, falling
// back to a configured service account.
type Resolver struct {
	serviceAccountEmail string
}

// NewResolver creates a new Resolver.
func NewResolver(serviceAccountEmail string) *Resolver {
	return &Resolver{serviceAccountEmail: serviceAccountEmail}
}

// GetLoggedInUserEmail returns the acting user's email.
func (r *Resolver) GetLoggedInUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(userEmailKey).(string); ok && email != "" {
		return email
	}
	return r.serviceAccountEmail
}

// GetSimulatedUserEmail returns the simulated-user email, or the acting
// user's email when no simulation is active.
func (r *Resolver) GetSimulatedUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(simulatedEmailKey).(string); ok && email != "" {
		return email
	}
	return r.GetLoggedInUserEmail(ctx)
}

var _ port.UserResolver = (*Resolver)(nil)
