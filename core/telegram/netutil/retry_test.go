package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}
	wrapped := &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: dial}

	assert.False(t, ShouldRetry(nil))
	assert.True(t, ShouldRetry(timeoutErr{}))
	assert.True(t, ShouldRetry(dial))
	assert.True(t, ShouldRetry(wrapped))
	assert.True(t, ShouldRetry(fmt.Errorf("telegram: bad gateway (502)")))
	assert.False(t, ShouldRetry(fmt.Errorf("telegram: chat not found (400)")))
	assert.False(t, ShouldRetry(errors.New("boom")))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "ok", Classify(nil))
	assert.Equal(t, "timeout", Classify(context.DeadlineExceeded))
	assert.Equal(t, "timeout", Classify(timeoutErr{}))
	assert.Equal(t, "dns", Classify(&net.DNSError{Err: "no such host", Name: "api.telegram.org"}))
	assert.Equal(t, "dial", Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "http_4xx", Classify(errors.New("telegram: forbidden (403)")))
	assert.Equal(t, "unknown", Classify(errors.New("boom")))
}

func TestRetryAfterWithoutFlood(t *testing.T) {
	assert.Equal(t, time.Duration(0), RetryAfter(errors.New("boom")))
}

func TestRedact(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123:ABC-def_9/sendMessage": timeout`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout`, Redact(err))
	assert.Empty(t, Redact(nil))
}
