package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorResponseFindsWrappedError(t *testing.T) {
	c, rec := newContext("")
	cause := errors.New("ttl expired")
	err := fmt.Errorf("load: %w", InvalidInputError("weights must be finite").WithField("weights").WithError(cause))

	require.NoError(t, AppErrorResponse(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR_INVALID_INPUT"`)
	assert.Contains(t, rec.Body.String(), `"field":"weights"`)
	assert.NotContains(t, rec.Body.String(), "ttl expired")
}

func TestAppErrorResponseHidesPlainErrors(t *testing.T) {
	c, rec := newContext("")
	require.NoError(t, AppErrorResponse(c, errors.New("dial tcp: refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeInternal)
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestRateLimitedResponseClampsRetryAfter(t *testing.T) {
	c, rec := newContext("")
	require.NoError(t, RateLimitedResponse(c, 0))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), CodeRateLimited)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := UnavailableError("history down").WithError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "history down: boom", err.Error())
	assert.Equal(t, "history down", UnavailableError("history down").Error())
}
