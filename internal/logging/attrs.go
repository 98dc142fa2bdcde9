package logging

import (
	"log/slog"
	"time"
)

// Attr aliases slog.Attr so callers can build structured fields without
// importing log/slog next to this package.
type Attr = slog.Attr

func String(key, v string) Attr { return slog.String(key, v) }

func Int(key string, v int) Attr { return slog.Int(key, v) }

func Int64(key string, v int64) Attr { return slog.Int64(key, v) }

func Float64(key string, v float64) Attr { return slog.Float64(key, v) }

func Bool(key string, v bool) Attr { return slog.Bool(key, v) }

func Duration(key string, v time.Duration) Attr { return slog.Duration(key, v) }

func Any(key string, v any) Attr { return slog.Any(key, v) }

// Error places err under the conventional "error" key.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}
