// Package yaupdates provides update sources feeding a dispatcher: an in-process
// channel and a Redis list carrying msgpack envelopes.
package yaupdates

import (
	"context"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// Source yields updates one at a time. Next returns an error wrapping
// ErrSourceClosed once no more updates will arrive.
type Source interface {
	Next(ctx context.Context) (any, yaerrors.Error)
}

// ChannelSource reads updates from a Go channel. Closing the channel closes the source.
type ChannelSource struct {
	updates <-chan any
}

func NewChannelSource(updates <-chan any) *ChannelSource {
	return &ChannelSource{updates: updates}
}

// NewStaticSource returns a source yielding updates in order and then closing.
//
// Example usage:
//
//	err := d.Start(ctx, yaupdates.NewStaticSource("/start", "/help"))
func NewStaticSource(updates ...any) *ChannelSource {
	ch := make(chan any, len(updates))

	for _, update := range updates {
		ch <- update
	}

	close(ch)

	return NewChannelSource(ch)
}

func (s *ChannelSource) Next(ctx context.Context) (any, yaerrors.Error) {
	select {
	case update, ok := <-s.updates:
		if !ok {
			return nil, yaerrors.FromError(http.StatusGone, ErrSourceClosed, "channel source")
		}

		return update, nil
	case <-ctx.Done():
		return nil, yaerrors.FromError(http.StatusRequestTimeout, ctx.Err(), "channel source")
	}
}
