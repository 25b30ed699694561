package core

// Logger is implemented by every log sink of the app.
// args may contain errors, maps of extras and at most one user.User (the acting user).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
