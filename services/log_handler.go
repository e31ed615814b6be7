package services

// LogHandler is the logging surface used by the client and the sandbox.
type LogHandler interface {
	Debug(text string)
	Info(text string)
	Warn(text string)
	Error(text string, err error)
}
