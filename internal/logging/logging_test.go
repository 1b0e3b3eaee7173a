package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/productivity-tracker/internal/logging"
	"github.com/nhle/productivity-tracker/internal/model"
)

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"msg":"hello"`},
		{format: "text", want: "msg=hello"},
		{format: "", want: `"level":"INFO"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", tt.format, &buf).Info("hello")
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("warn", "json", &buf)

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestNew_RedactsSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Info("login",
		slog.String("password", "hunter2"),
		slog.String("credential", "alice@example.com"),
		slog.Any("user", model.User{Username: "alice", Password: "$2a$10$hashhashhash"}),
		slog.Int64("user_id", 7),
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "alice@example.com")
	assert.NotContains(t, out, "$2a$10$hashhashhash")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, `"user_id":7`)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	fallback := logging.Discard()
	assert.Same(t, fallback, logging.FromContext(context.Background(), fallback))
	assert.Same(t, slog.Default(), logging.FromContext(context.Background(), nil))

	stored := logging.New("info", "json", &bytes.Buffer{})
	ctx := logging.WithLogger(context.Background(), stored)
	assert.Same(t, stored, logging.FromContext(ctx, fallback))
}

func TestNew_DebugAddsSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("DEBUG", "json", &buf).Debug("trace")
	assert.True(t, strings.Contains(buf.String(), `"source"`))
}
