// Package locate defines the geolocation provider contract. The session
// controller only depends on the Provider interface; concrete fixes come from
// whatever read the device's GPS (in the HTTP surface, the request body).
package locate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkhere/internal/domain/entities"
)

// Kind distinguishes the geolocation failure modes. They mirror the provider
// error codes and are surfaced to the user verbatim, each with its own
// message; no automatic retry happens.
type Kind int

const (
	KindPermissionDenied Kind = iota + 1
	KindUnavailable
	KindTimeout
)

// String returns the wire name of the failure kind.
func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindUnavailable:
		return "position_unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a typed geolocation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("geolocation %s: %s", e.Kind, e.Message)
}

// PermissionDenied returns the failure for a denied location permission.
func PermissionDenied() *Error {
	return &Error{Kind: KindPermissionDenied, Message: "Location access denied. Please enable location."}
}

// Unavailable returns the failure for an unobtainable position fix.
func Unavailable() *Error {
	return &Error{Kind: KindUnavailable, Message: "Location unavailable. Check GPS/Wi-Fi."}
}

// Timeout returns the failure for a position request that ran out of time.
func Timeout() *Error {
	return &Error{Kind: KindTimeout, Message: "Location request timed out. Please try again."}
}

// Provider supplies the device's current position. Implementations must
// return either a valid Position or an error, preferably a *Error carrying
// the failure kind.
type Provider interface {
	Locate(ctx context.Context) (entities.Position, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (entities.Position, error)

func (f ProviderFunc) Locate(ctx context.Context) (entities.Position, error) {
	return f(ctx)
}

// Fix returns a Provider that always yields the given position. The HTTP
// handlers use it to adapt a request-supplied coordinate pair.
func Fix(pos entities.Position) Provider {
	return ProviderFunc(func(ctx context.Context) (entities.Position, error) {
		return pos, nil
	})
}

// WithTimeout wraps a Provider with a deadline. A read that exceeds it is
// reported as the timeout failure kind.
func WithTimeout(p Provider, d time.Duration) Provider {
	return ProviderFunc(func(ctx context.Context) (entities.Position, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		pos, err := p.Locate(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return entities.Position{}, Timeout()
			}
			return entities.Position{}, err
		}
		return pos, nil
	})
}
