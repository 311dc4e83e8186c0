package yaupdates

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaencoding"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// KindText marks an envelope carrying a plain text update.
const KindText = "text"

// Envelope is the msgpack frame stored in the Redis list.
type Envelope struct {
	Kind    string `msgpack:"kind"`
	Text    string `msgpack:"text,omitempty"`
	Payload []byte `msgpack:"payload,omitempty"`
}

// Decoder turns an envelope payload into an update value.
type Decoder func(payload []byte) (any, yaerrors.Error)

// MessagePackDecoder decodes payloads into values of type T.
func MessagePackDecoder[T any]() Decoder {
	return func(payload []byte) (any, yaerrors.Error) {
		value, err := yaencoding.DecodeMessagePack[T](payload)
		if err != nil {
			return nil, err.Wrap(fmt.Sprintf("decode %s payload", reflect.TypeFor[T]()))
		}

		return *value, nil
	}
}

// NewTextEnvelope builds the envelope for a text update.
func NewTextEnvelope(text string) Envelope {
	return Envelope{Kind: KindText, Text: text}
}

// NewEnvelope encodes value with msgpack under kind.
func NewEnvelope[T any](kind string, value T) (Envelope, yaerrors.Error) {
	if kind == "" || kind == KindText {
		return Envelope{}, yaerrors.FromError(
			http.StatusBadRequest,
			ErrUnknownKind,
			fmt.Sprintf("kind %q is reserved or empty", kind),
		)
	}

	payload, err := yaencoding.EncodeMessagePack(value)
	if err != nil {
		return Envelope{}, err.Wrap("encode envelope payload")
	}

	return Envelope{Kind: kind, Payload: payload}, nil
}
