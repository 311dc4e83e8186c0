package yalogger

import (
	"fmt"
	"strings"
)

var levelNames = [...]string{
	PanicLevel: "panic",
	FatalLevel: "fatal",
	ErrorLevel: "error",
	WarnLevel:  "warn",
	InfoLevel:  "info",
	DebugLevel: "debug",
	TraceLevel: "trace",
}

// ParseLevel converts a case-insensitive level name such as "info" into a Level.
func ParseLevel(text string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(text))

	for level, candidate := range levelNames {
		if candidate == name {
			return Level(level), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, text)
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}

	return "unknown"
}

func (l *Level) Unmarshal(text string) error {
	level, err := ParseLevel(text)
	if err != nil {
		return err
	}

	*l = level

	return nil
}

// UnmarshalText lets config loaders read a Level from its name.
func (l *Level) UnmarshalText(text []byte) error {
	return l.Unmarshal(string(text))
}

func (l Level) MarshalText() ([]byte, error) {
	if int(l) >= len(levelNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLogLevel, uint32(l))
	}

	return []byte(levelNames[l]), nil
}
