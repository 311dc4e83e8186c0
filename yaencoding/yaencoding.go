// Package yaencoding wraps the MessagePack codec used for updates travelling through
// an external queue.
//
// Example:
//
//	type Payment struct {
//		ID     int64
//		Amount int64
//	}
//
//	raw, err := yaencoding.EncodeMessagePack(Payment{ID: 1, Amount: 100})
//	if err != nil {
//		// handle error
//	}
//
//	payment, err := yaencoding.DecodeMessagePack[Payment](raw)
package yaencoding

import (
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// EncodeMessagePack serializes value using the MessagePack format.
func EncodeMessagePack(value any) ([]byte, yaerrors.Error) {
	bytes, err := msgpack.Marshal(value)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to marshal %T using message pack format", value),
		)
	}

	return bytes, nil
}

// DecodeMessagePack decodes MessagePack data into a value of type T.
func DecodeMessagePack[T any](bytes []byte) (*T, yaerrors.Error) {
	var res T

	if err := msgpack.Unmarshal(bytes, &res); err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to unmarshal message pack data into %T", res),
		)
	}

	return &res, nil
}
