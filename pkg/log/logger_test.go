package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkhive/linkhive/pkg/log"
)

func TestCtxLogger_Level(t *testing.T) {
	logger := log.NewCtxLogger("debug", nil)
	assert.Equal(t, "debug", logger.Level())
}

func TestCtxLogger_DoesNotPanicOnNilContext(t *testing.T) {
	logger := log.NewCtxLogger("info", []string{"request_id"})

	assert.NotPanics(t, func() {
		logger.Info(nil, "message without context") //nolint:staticcheck
	})
}

func TestCtxLogger_AppendsContextValues(t *testing.T) {
	logger := log.NewCtxLogger("info", []string{"request_id"})
	ctx := context.WithValue(context.Background(), "request_id", "abc-123") //nolint:staticcheck

	assert.NotPanics(t, func() {
		logger.Info(ctx, "message with context", "key", "value")
	})
}
