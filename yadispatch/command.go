package yadispatch

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// CommandHandler matches text updates of the form "<prefix><command> arg1 arg2 ...".
//
// The text after the prefix is split on single spaces, so consecutive spaces produce
// empty arguments. Matching is case-sensitive.
type CommandHandler struct {
	baseHandler

	command string
	prefix  string
}

// NewCommandHandler creates a handler for command.
//
// Example usage:
//
//	start, err := yadispatch.NewCommandHandler("start", onStart, yadispatch.WithDefaults(d.Defaults()))
//	if err != nil {
//	    // invalid command or nil callback
//	}
//
//	d.Register(0, start)
func NewCommandHandler(command string, callback Callback, opts ...HandlerOption) (*CommandHandler, yaerrors.Error) {
	if command == "" {
		return nil, configurationError("command must not be empty")
	}

	if strings.Contains(command, " ") {
		return nil, configurationError(fmt.Sprintf("command %q must not contain spaces", command))
	}

	if callback == nil {
		return nil, configurationError(fmt.Sprintf("callback for command %q is nil", command))
	}

	options := applyOptions(opts)

	prefix := options.prefix
	if prefix == 0 {
		prefix = options.defaults.CommandPrefix
	}

	if prefix == 0 {
		prefix = DefaultCommandPrefix
	}

	if prefix == utf8.RuneError || unicode.IsSpace(prefix) {
		return nil, configurationError(fmt.Sprintf("invalid command prefix %q", prefix))
	}

	return &CommandHandler{
		baseHandler: newBaseHandler(callback, options),
		command:     command,
		prefix:      string(prefix),
	}, nil
}

// Command returns the command name without prefix.
func (h *CommandHandler) Command() string {
	return h.command
}

// Prefix returns the resolved command prefix.
func (h *CommandHandler) Prefix() string {
	return h.prefix
}

// Match reports whether update is a string invoking the command. The result is the
// argument list, a non-nil empty slice when the command has no arguments.
func (h *CommandHandler) Match(_ context.Context, update Update) (MatchResult, bool, yaerrors.Error) {
	text, ok := update.(string)
	if !ok {
		return nil, false, nil
	}

	rest, ok := strings.CutPrefix(text, h.prefix)
	if !ok {
		return nil, false, nil
	}

	tokens := strings.Split(rest, " ")
	if tokens[0] != h.command {
		return nil, false, nil
	}

	return tokens[1:], true, nil
}

// Enrich stores the matched arguments in data.Args, replacing any previous value.
func (h *CommandHandler) Enrich(data *HandlerData, _ Update, result MatchResult) {
	args, _ := result.([]string)
	if args == nil {
		args = []string{}
	}

	data.Args = args
}

func (h *CommandHandler) String() string {
	return "CommandHandler(" + h.prefix + h.command + ")"
}
