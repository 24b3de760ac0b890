package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Booking flow logging methods

// LogHoldGranted logs a successful seat hold grant or extension
func (l *Logger) LogHoldGranted(ctx context.Context, holdID, eventID, sessionID string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Hold Granted",
		slog.String("hold_id", holdID),
		slog.String("event_id", eventID),
		slog.String("session_id", sessionID),
		slog.Int("seats", seatCount),
	)
}

// LogHoldReleased logs an explicit hold release
func (l *Logger) LogHoldReleased(ctx context.Context, holdID string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Hold Released",
		slog.String("hold_id", holdID),
		slog.Int("seats", seatCount),
	)
}

// LogSeatConflict logs a contention loss on a hold or finalize attempt
func (l *Logger) LogSeatConflict(ctx context.Context, eventID string, seatIDs []string, op string) {
	l.Logger.WarnContext(ctx,
		"Seat Conflict",
		slog.String("event_id", eventID),
		slog.Any("seat_ids", seatIDs),
		slog.String("operation", op),
	)
}

// LogOrderCreated logs a new checkout intent
func (l *Logger) LogOrderCreated(ctx context.Context, orderID, orderNumber, eventID string, total float64) {
	l.Logger.InfoContext(ctx,
		"Order Created",
		slog.String("order_id", orderID),
		slog.String("order_number", orderNumber),
		slog.String("event_id", eventID),
		slog.Float64("total", total),
	)
}

// LogOrderFinalized logs a completed sale
func (l *Logger) LogOrderFinalized(ctx context.Context, orderID string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Order Finalized",
		slog.String("order_id", orderID),
		slog.Int("tickets", seatCount),
	)
}

// LogHoldsReclaimed logs an expiration worker sweep
func (l *Logger) LogHoldsReclaimed(ctx context.Context, holds, seats int) {
	l.Logger.InfoContext(ctx,
		"Expired Holds Reclaimed",
		slog.Int("holds", holds),
		slog.Int("seats", seats),
	)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
