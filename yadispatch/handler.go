package yadispatch

import (
	"context"
	"fmt"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// Update is any value delivered to the dispatcher.
type Update = any

// MatchResult is the handler-specific payload produced by a successful Match.
type MatchResult = any

// Callback is the user function invoked for a matched update.
type Callback func(ctx context.Context, data *HandlerData, update Update) yaerrors.Error

// Handler decides whether it is responsible for an update, contributes data to the
// HandlerData and exposes the callback and scheduling mode the dispatcher should use.
//
// Match must not have side effects. A returned error aborts the whole dispatch pass,
// so updates of an unexpected shape must produce a plain no-match instead.
type Handler interface {
	Match(ctx context.Context, update Update) (MatchResult, bool, yaerrors.Error)
	Enrich(data *HandlerData, update Update, result MatchResult)
	Blocking() bool
	Callback() Callback
}

// Blocking is the tri-state scheduling preference given at construction time.
type Blocking uint8

const (
	BlockingDefault Blocking = iota
	BlockingTrue
	BlockingFalse
)

// Resolve returns the effective flag, falling back to def for BlockingDefault.
func (b Blocking) Resolve(def bool) bool {
	switch b {
	case BlockingTrue:
		return true
	case BlockingFalse:
		return false
	default:
		return def
	}
}

// Defaults carries the values used when a handler does not set its own.
type Defaults struct {
	Blocking      bool
	CommandPrefix rune
}

const DefaultCommandPrefix = '/'

// NewDefaults returns the package defaults: blocking handlers and the "/" prefix.
func NewDefaults() Defaults {
	return Defaults{
		Blocking:      true,
		CommandPrefix: DefaultCommandPrefix,
	}
}

type handlerOptions struct {
	blocking Blocking
	defaults Defaults
	prefix   rune
	strict   bool
	comparer TypeComparer
}

// HandlerOption configures a handler at construction time. Options that do not apply
// to a handler kind are ignored.
type HandlerOption func(*handlerOptions)

// WithBlocking sets the scheduling mode explicitly, overriding Defaults.Blocking.
func WithBlocking(blocking bool) HandlerOption {
	return func(o *handlerOptions) {
		if blocking {
			o.blocking = BlockingTrue
		} else {
			o.blocking = BlockingFalse
		}
	}
}

// WithDefaults injects the defaults used for unset options, usually Dispatcher.Defaults().
func WithDefaults(defaults Defaults) HandlerOption {
	return func(o *handlerOptions) {
		o.defaults = defaults
	}
}

// WithPrefix overrides the command prefix of a command handler.
func WithPrefix(prefix rune) HandlerOption {
	return func(o *handlerOptions) {
		o.prefix = prefix
	}
}

// WithStrict makes a type handler require the exact dynamic type.
func WithStrict(strict bool) HandlerOption {
	return func(o *handlerOptions) {
		o.strict = strict
	}
}

// WithComparer installs a custom type comparison strategy. It takes precedence over WithStrict.
func WithComparer(comparer TypeComparer) HandlerOption {
	return func(o *handlerOptions) {
		o.comparer = comparer
	}
}

func applyOptions(opts []HandlerOption) handlerOptions {
	options := handlerOptions{
		defaults: NewDefaults(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	return options
}

type baseHandler struct {
	callback Callback
	blocking bool
}

func newBaseHandler(callback Callback, options handlerOptions) baseHandler {
	return baseHandler{
		callback: callback,
		blocking: options.blocking.Resolve(options.defaults.Blocking),
	}
}

func (h *baseHandler) Blocking() bool {
	return h.blocking
}

func (h *baseHandler) Callback() Callback {
	return h.callback
}

// HandlerName returns a printable name for h, used in logs and the failure journal.
func HandlerName(h Handler) string {
	if h == nil {
		return "<nil>"
	}

	if stringer, ok := h.(fmt.Stringer); ok {
		return stringer.String()
	}

	return fmt.Sprintf("%T", h)
}
