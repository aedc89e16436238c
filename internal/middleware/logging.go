package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that writes one log line
// per RPC with the procedure, the calling household and the elapsed time.
// Failed calls also carry the Connect code; rpcLogLevel picks the level.
//
// It must run inside RequireAuth to see the household.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("household_id", GetHouseholdID(ctx)),
			}
			if userID := GetUserID(ctx); userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			resp, err := next(ctx, req)

			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			if err != nil {
				attrs = append(attrs,
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", errorMessage(err)),
				)
			}
			level, msg := rpcLogLevel(err)
			slog.LogAttrs(ctx, level, msg, attrs...)

			return resp, err
		}
	}
}

// rpcLogLevel classifies an RPC outcome. Caller mistakes (bad quantity,
// stale version, missing batch, ...) are warnings; server faults are errors.
func rpcLogLevel(err error) (slog.Level, string) {
	if err == nil {
		return slog.LevelInfo, "RPC ok"
	}
	switch connect.CodeOf(err) {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return slog.LevelError, "RPC failed"
	default:
		return slog.LevelWarn, "RPC rejected"
	}
}

func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}
