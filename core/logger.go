package core

// Logger logs messages and reports errors.
// args may contain errors, extra data (map[string]interface{}) and the session.Session the message relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
