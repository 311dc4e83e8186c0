package config

import "github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"

// safetyCheck ensures that the logger is not nil before performing any operations.
// If the logger is nil, it initializes a new logger and logs a warning message.
func safetyCheck(log *yalogger.Logger) {
	if log == nil {
		return
	}

	if *log == nil {
		*log = yalogger.NewBaseLogger(nil).NewLogger()

		(*log).Warn("Logger is nil, using default logger")
	}
}
