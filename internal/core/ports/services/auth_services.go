package services

import (
	"context"
	"time"
)

// AuthSvcFacade authenticates staff actors and issues access tokens. The
// staff identity carried by the token is what the decision endpoints record
// as the acting identity.
type AuthSvcFacade interface {
	// Login verifies the staff credential and returns a signed JWT plus its
	// expiry time. Returns apperrors.ErrUnauthorized on credential mismatch.
	Login(ctx context.Context, staffID string, password string) (string, time.Time, error)
}
