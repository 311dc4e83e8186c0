package yadispatch

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// TypeOfAny is the target type matching every non-nil update.
var TypeOfAny = reflect.TypeFor[any]()

// TypeComparer decides whether a dynamic update type satisfies a handler's target type.
type TypeComparer interface {
	Compare(actual reflect.Type, target reflect.Type) bool
}

// AssignableComparer accepts the target type itself, types implementing a target
// interface and types otherwise assignable to the target.
type AssignableComparer struct{}

func (AssignableComparer) Compare(actual reflect.Type, target reflect.Type) bool {
	return actual.AssignableTo(target)
}

// ExactComparer accepts only the identical type.
type ExactComparer struct{}

func (ExactComparer) Compare(actual reflect.Type, target reflect.Type) bool {
	return actual == target
}

// TypeHandler matches updates by their dynamic type.
type TypeHandler struct {
	baseHandler

	target   reflect.Type
	comparer TypeComparer
}

// NewTypeHandler creates a handler for updates of type T with a typed callback.
//
// Example usage:
//
//	h, err := yadispatch.NewTypeHandler(func(ctx context.Context, data *yadispatch.HandlerData, e PaymentEvent) yaerrors.Error {
//	    return nil
//	}, yadispatch.WithStrict(true))
func NewTypeHandler[T any](
	callback func(ctx context.Context, data *HandlerData, update T) yaerrors.Error,
	opts ...HandlerOption,
) (*TypeHandler, yaerrors.Error) {
	if callback == nil {
		return nil, configurationError(fmt.Sprintf("callback for type %s is nil", reflect.TypeFor[T]()))
	}

	return NewTypeHandlerFor(reflect.TypeFor[T](), wrapTyped(callback), opts...)
}

// NewTypeHandlerFor creates a handler for updates of the target type with an untyped callback.
func NewTypeHandlerFor(target reflect.Type, callback Callback, opts ...HandlerOption) (*TypeHandler, yaerrors.Error) {
	if target == nil {
		return nil, configurationError("target type is nil")
	}

	if callback == nil {
		return nil, configurationError(fmt.Sprintf("callback for type %s is nil", target))
	}

	options := applyOptions(opts)

	comparer := options.comparer
	if comparer == nil {
		if options.strict {
			comparer = ExactComparer{}
		} else {
			comparer = AssignableComparer{}
		}
	}

	return &TypeHandler{
		baseHandler: newBaseHandler(callback, options),
		target:      target,
		comparer:    comparer,
	}, nil
}

// Target returns the type the handler matches against.
func (h *TypeHandler) Target() reflect.Type {
	return h.target
}

func (h *TypeHandler) Match(_ context.Context, update Update) (MatchResult, bool, yaerrors.Error) {
	actual := reflect.TypeOf(update)
	if actual == nil {
		return nil, false, nil
	}

	return nil, h.comparer.Compare(actual, h.target), nil
}

// Enrich does nothing; type handlers add no data.
func (h *TypeHandler) Enrich(*HandlerData, Update, MatchResult) {}

func (h *TypeHandler) String() string {
	return "TypeHandler(" + h.target.String() + ")"
}

func wrapTyped[T any](callback func(ctx context.Context, data *HandlerData, update T) yaerrors.Error) Callback {
	return func(ctx context.Context, data *HandlerData, update Update) yaerrors.Error {
		typed, ok := update.(T)
		if !ok {
			value := reflect.ValueOf(update)
			if !value.IsValid() || !value.Type().AssignableTo(reflect.TypeFor[T]()) {
				return yaerrors.FromError(
					http.StatusInternalServerError,
					ErrCallback,
					fmt.Sprintf("update of type %T is not assignable to %s", update, reflect.TypeFor[T]()),
				)
			}

			reflect.ValueOf(&typed).Elem().Set(value)
		}

		return callback(ctx, data, typed)
	}
}
