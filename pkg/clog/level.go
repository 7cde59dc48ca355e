package clog

import "log/slog"

// HTTPStatusToLevel maps a response status to the level its request log
// line is emitted at. 499 (client closed request) stays informational.
func HTTPStatusToLevel(status int) slog.Level {
	switch {
	case status >= 100 && status < 400:
		return slog.LevelInfo
	case status == 499:
		return slog.LevelInfo
	case status >= 400 && status < 500:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
