// Package provider implements the external identity verifiers used for
// federated sign-in. Each provider takes the credential the browser
// obtained (a Google ID token, a GitHub authorization code) and resolves
// it to a verified email address.
package provider

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrVerificationFailed means the provider rejected the credential.
	ErrVerificationFailed = errors.New("provider: verification failed")

	// ErrEmailMissing means the provider accepted the credential but did
	// not yield a usable email address.
	ErrEmailMissing = errors.New("provider: no verified email")
)

const defaultTimeout = 10 * time.Second

func httpClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}
