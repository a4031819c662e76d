package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(ProactiveRate, ProactiveBurst)
	reset := time.Now().Add(time.Minute).Unix()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "12")
	resp.Header.Set(HeaderRateLimit, "30")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(reset, 10))
	r.UpdateFromResponse(resp)

	assert.Equal(t, 12, r.Remaining())
	assert.Equal(t, 30, r.Limit())
	assert.Equal(t, reset, r.ResetTime().Unix())
}

func TestRateLimiter_UpdateFromResponse_IgnoresBadHeaders(t *testing.T) {
	r := NewRateLimiter(ProactiveRate, ProactiveBurst)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "many")
	r.UpdateFromResponse(resp)
	r.UpdateFromResponse(nil)

	assert.Equal(t, SearchRateLimit, r.Remaining())
}

func TestRateLimiter_Wait_BlocksWhenExhausted(t *testing.T) {
	r := NewRateLimiter(1000, 10)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
	r.UpdateFromResponse(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Wait_PassesAfterReset(t *testing.T) {
	r := NewRateLimiter(1000, 10)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10))
	r.UpdateFromResponse(resp)

	assert.NoError(t, r.Wait(context.Background()))
}
