package yalogger

import "errors"

// Level mirrors the logrus level ordering, so a Level converts to logrus.Level directly.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

// Structured-logging keys shared by the module.
const (
	KeyRequestID = "request_id"
	KeyGroup     = "group"
	KeyHandler   = "handler"
	KeyWorkerID  = "worker_id"
	KeyJobID     = "job_id"
)

var ErrInvalidLogLevel = errors.New("invalid log level")
