package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// ── constructors ──────────────────────────────────────────────────────────────

func TestNewWithWriter_RoleTimestampAndCaller(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("sync", &buf)

	l.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "sync", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "func")
	assert.Equal(t, "hello", entry["message"])
}

func TestNewLogger_SetsGlobals(t *testing.T) {
	require.NotNil(t, NewLogger("server"))
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNewClientLogger_ReturnsCloser(t *testing.T) {
	l, closer := NewClientLogger("client")
	require.NotNil(t, l)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("dropped")

	assert.Empty(t, buf.String())
}

// ── children ──────────────────────────────────────────────────────────────────

func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter("parent-role", &buf)

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)

	child.Info().Msg("from child")
	assert.Equal(t, "parent-role", decodeLine(t, &buf)["role"])
}

func TestWithComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("client", &buf).WithComponent("sync-engine")

	l.Warn().Msg("x")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "sync-engine", entry["component"])
	assert.Equal(t, "client", entry["role"])
}

// ── context helpers ───────────────────────────────────────────────────────────

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "abc").Logger()
	ctx := zl.WithContext(context.Background())

	FromContext(ctx).Info().Msg("ctx")

	assert.Equal(t, "abc", decodeLine(t, &buf)["trace_id"])
}

func TestFromContext_NeverNil(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestFromRequest_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("req", "yes").Logger()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(zl.WithContext(context.Background()))

	FromRequest(req).Info().Msg("req")

	assert.Equal(t, "yes", decodeLine(t, &buf)["req"])
}
