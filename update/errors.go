package update

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

var (
	ErrNoReleases        = errors.New("no releases found")
	ErrNoMatchingAsset   = errors.New("no matching release asset")
	ErrRateLimited       = errors.New("github rate limit exceeded")
	ErrServerError       = errors.New("github server error")
	ErrInvalidHostname   = errors.New("invalid hostname")
	ErrConnectionRefused = errors.New("connection refused")
	ErrTimeout           = errors.New("connection timeout")
)

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNoReleases
	case e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrServerError
	default:
		return nil
	}
}

func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &dnsErr) {
			return fmt.Errorf("%w: %s", ErrInvalidHostname, dnsErr.Name)
		}

		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
				return fmt.Errorf("%w: host not reachable", ErrConnectionRefused)
			}
			if opErr.Timeout() {
				return fmt.Errorf("%w: host did not respond", ErrTimeout)
			}
		}

		if urlErr.Timeout() {
			return fmt.Errorf("%w: host did not respond", ErrTimeout)
		}
	}

	if strings.Contains(err.Error(), "Client.Timeout exceeded") {
		return fmt.Errorf("%w: host did not respond", ErrTimeout)
	}

	return err
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrServerError),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrConnectionRefused):
		return true
	default:
		return false
	}
}
