package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitetrack/authkit/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	attr := logger.UserID("123")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())
}

func TestComponentAndEvent(t *testing.T) {
	attr := logger.Component("twofactor")
	require.Equal(t, "component", attr.Key)
	assert.Equal(t, "twofactor", attr.Value.String())

	attr = logger.Event("2fa_enabled")
	require.Equal(t, "event", attr.Key)
	assert.Equal(t, "2fa_enabled", attr.Value.String())
}

func TestActionAndMethod(t *testing.T) {
	attr := logger.Action("2fa-verify")
	require.Equal(t, "action", attr.Key)
	assert.Equal(t, "2fa-verify", attr.Value.String())

	attr = logger.Method("totp")
	require.Equal(t, "method", attr.Key)
	assert.Equal(t, "totp", attr.Value.String())
}

func TestAttempts(t *testing.T) {
	attr := logger.Attempts(2)
	require.Equal(t, "attempts_remaining", attr.Key)
	assert.Equal(t, int64(2), attr.Value.Int64())
}

func TestDuration(t *testing.T) {
	attr := logger.Duration(time.Second)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, time.Second, attr.Value.Any())
}
