package dashboard

import "log/slog"

// Notifier receives the user-visible notifications the store emits after
// mutations. The default sink is the log; tests record them.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the default logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { slog.Info("notify", "level", "success", "message", msg) }
func (LogNotifier) Info(msg string)    { slog.Info("notify", "level", "info", "message", msg) }
func (LogNotifier) Error(msg string)   { slog.Warn("notify", "level", "error", "message", msg) }
