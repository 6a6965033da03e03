package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxVisitorIDLength = 190

// ErrInvalidVisitorID indicates that a visitor identifier is empty or exceeds storage bounds.
var ErrInvalidVisitorID = errors.New("session: invalid visitor id")

// VisitorID represents a validated anonymous visitor identifier. It is an
// opaque random token scoped to one browser, never tied to an account.
type VisitorID string

// NewVisitorID validates raw input and returns a VisitorID.
func NewVisitorID(rawInput string) (VisitorID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidVisitorID)
	}
	if len(trimmed) > maxVisitorIDLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidVisitorID, maxVisitorIDLength)
	}
	return VisitorID(trimmed), nil
}

// String returns the underlying string identifier.
func (id VisitorID) String() string {
	return string(id)
}

// Provider issues fresh anonymous visitor identifiers.
type Provider interface {
	NewVisitorID() (VisitorID, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs a Provider backed by random UUIDv4 values.
func NewUUIDProvider() Provider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewVisitorID() (VisitorID, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return VisitorID(value.String()), nil
}
