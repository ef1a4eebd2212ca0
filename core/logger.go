package core

// Logger is implemented by any logging/error-reporting backend.
// args may contain errors, map[string]interface{} extras and the acting user (user.User).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
