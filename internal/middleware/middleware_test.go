package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisefikser/krisefikser/internal/auth"
)

func echoHousehold(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetHouseholdID(ctx)
		return connect.NewResponse(&struct{}{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate("household-1", "user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
		code   connect.Code
	}{
		{"valid token", "Bearer " + token, "household-1", 0},
		{"missing header", "", "", connect.CodeUnauthenticated},
		{"wrong scheme", "Basic " + token, "", connect.CodeUnauthenticated},
		{"bad token", "Bearer nope", "", connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequireAuth(jwtManager)(echoHousehold(&seen))

			req := connect.NewRequest(&struct{}{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.code == 0 {
				require.NoError(t, err)
			} else {
				assert.Equal(t, tt.code, connect.CodeOf(err))
			}
			assert.Equal(t, tt.want, seen)
		})
	}
}

type recordingObserver struct {
	codes []string
}

func (r *recordingObserver) ObserveRPC(_ string, code string, _ time.Duration) {
	r.codes = append(r.codes, code)
}

func TestMetricsInterceptor(t *testing.T) {
	observer := &recordingObserver{}
	interceptor := MetricsInterceptor(observer)

	ok := interceptor(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	})
	notFound := interceptor(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})
	plain := interceptor(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, errors.New("boom")
	})

	for _, call := range []connect.UnaryFunc{ok, notFound, plain} {
		_, _ = call(context.Background(), connect.NewRequest(&struct{}{}))
	}

	assert.Equal(t, []string{"ok", "not_found", "unknown"}, observer.codes)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	want := errors.New("boom")
	handler := LoggingInterceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	})

	_, err := handler(WithHouseholdID(context.Background(), "household-1"), connect.NewRequest(&struct{}{}))
	assert.ErrorIs(t, err, want)
}

func TestRPCLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel slog.Level
	}{
		{"success", nil, slog.LevelInfo},
		{"not found", connect.NewError(connect.CodeNotFound, errors.New("gone")), slog.LevelWarn},
		{"conflict", connect.NewError(connect.CodeAborted, errors.New("stale")), slog.LevelWarn},
		{"permission denied", connect.NewError(connect.CodePermissionDenied, errors.New("no")), slog.LevelWarn},
		{"internal", connect.NewError(connect.CodeInternal, errors.New("db down")), slog.LevelError},
		{"plain error", errors.New("boom"), slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, _ := rpcLogLevel(tt.err)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestLoggingInterceptor_WritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := LoggingInterceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("storage item not found: s1"))
	})
	_, err := handler(WithHouseholdID(context.Background(), "household-1"), connect.NewRequest(&struct{}{}))
	require.Error(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "RPC rejected", line["msg"])
	assert.Equal(t, "household-1", line["household_id"])
	assert.Equal(t, "not_found", line["code"])
	assert.Equal(t, "storage item not found: s1", line["error"])
	assert.NotContains(t, line, "user_id")
}
