package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	apperrors "github.com/driftaudit/iac-reconciler/internal/errors"
)

type slogAdapter struct {
	logger *slog.Logger
}

func NewLogger(cfg Config) (ports.Logger, error) {
	return NewLoggerWithWriter(cfg, os.Stderr)
}

func NewLoggerWithWriter(cfg Config, w io.Writer) (ports.Logger, error) {
	var level slog.Level
	switch cfg.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelInfo:
		level = slog.LevelInfo
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText:
		fallthrough
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &slogAdapter{logger: slog.New(handler)}, nil
}

func (s *slogAdapter) log(ctx context.Context, level slog.Level, err error, format string, args ...any) {
	if !s.logger.Enabled(ctx, level) {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	var attrs []slog.Attr
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			attrs = append(attrs, slog.String("error_code", string(appErr.Code)))
			if appErr.InternalDetails != "" {
				attrs = append(attrs, slog.String("error_details", appErr.InternalDetails))
			}
			if appErr.WrappedError != nil {
				attrs = append(attrs, slog.String("error_wrapped", appErr.WrappedError.Error()))
			}
		} else {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
	}

	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *slogAdapter) Debugf(ctx context.Context, format string, args ...any) {
	s.log(ctx, slog.LevelDebug, nil, format, args...)
}

func (s *slogAdapter) Infof(ctx context.Context, format string, args ...any) {
	s.log(ctx, slog.LevelInfo, nil, format, args...)
}

func (s *slogAdapter) Warnf(ctx context.Context, format string, args ...any) {
	s.log(ctx, slog.LevelWarn, nil, format, args...)
}

func (s *slogAdapter) Errorf(ctx context.Context, err error, format string, args ...any) {
	s.log(ctx, slog.LevelError, err, format, args...)
}

func (s *slogAdapter) WithFields(fields map[string]any) ports.Logger {
	args := make([]any, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &slogAdapter{logger: s.logger.With(args...)}
}
