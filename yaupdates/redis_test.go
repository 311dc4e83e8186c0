package yaupdates_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaencoding"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaupdates"
)

const testKey = "yadispatch:test:updates"

type paymentEvent struct {
	ID     int64  `msgpack:"id"`
	Amount string `msgpack:"amount"`
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisSource_TextAndTypedUpdates(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	publisher := yaupdates.NewRedisPublisher(client, testKey)
	source := yaupdates.NewRedisSource(client, testKey, time.Second, yalogger.NewDiscardLogger())
	yaupdates.RegisterKind[paymentEvent](source, "payment")

	require.Nil(t, publisher.PublishText(ctx, "/start a b"))
	require.Nil(t, yaupdates.Publish(ctx, publisher, "payment", paymentEvent{ID: 7, Amount: "9.99"}))

	first, err := source.Next(ctx)
	require.Nil(t, err)
	assert.Equal(t, "/start a b", first)

	second, err := source.Next(ctx)
	require.Nil(t, err)
	assert.Equal(t, paymentEvent{ID: 7, Amount: "9.99"}, second)
}

func TestRedisSource_SkipsMalformedAndUnknown(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()

	unknown, err := yaencoding.EncodeMessagePack(yaupdates.Envelope{Kind: "mystery", Payload: []byte{0x01}})
	require.Nil(t, err)

	_, rerr := mr.Lpush(testKey, "\xc1 not msgpack")
	require.NoError(t, rerr)

	_, rerr = mr.Push(testKey, string(unknown))
	require.NoError(t, rerr)

	publisher := yaupdates.NewRedisPublisher(client, testKey)
	require.Nil(t, publisher.PublishText(ctx, "/help"))

	source := yaupdates.NewRedisSource(client, testKey, time.Second, yalogger.NewDiscardLogger())

	update, err := source.Next(ctx)
	require.Nil(t, err)
	assert.Equal(t, "/help", update)
}

func TestRedisSource_ContextCancel(t *testing.T) {
	client, _ := setupRedis(t)

	source := yaupdates.NewRedisSource(client, testKey, time.Second, yalogger.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Next(ctx)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEnvelope_RejectsReservedKind(t *testing.T) {
	_, err := yaupdates.NewEnvelope(yaupdates.KindText, paymentEvent{})
	require.NotNil(t, err)
	assert.ErrorIs(t, err, yaupdates.ErrUnknownKind)

	_, err = yaupdates.NewEnvelope("", paymentEvent{})
	require.NotNil(t, err)
}

func TestRedisSource_BackoffHonoursContext(t *testing.T) {
	client, mr := setupRedis(t)
	mr.Close()

	source := yaupdates.NewRedisSource(client, testKey, time.Second, yalogger.NewDiscardLogger())

	backoff := yabackoff.NewExponential(time.Hour, 2, time.Hour, 0)
	source.SetBackoff(&backoff)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	began := time.Now()

	_, err := source.Next(ctx)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(began), 10*time.Second)
}

func TestRedisSource_RetriesAfterOutage(t *testing.T) {
	client, mr := setupRedis(t)
	mr.Close()

	source := yaupdates.NewRedisSource(client, testKey, time.Second, yalogger.NewDiscardLogger())

	backoff := yabackoff.NewExponential(10*time.Millisecond, 1, 10*time.Millisecond, 0)
	source.SetBackoff(&backoff)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		update any
		err    error
	}

	done := make(chan result, 1)

	go func() {
		update, err := source.Next(ctx)
		if err != nil {
			done <- result{err: err}

			return
		}

		done <- result{update: update}
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, mr.Restart())

	raw, yaErr := yaencoding.EncodeMessagePack(yaupdates.NewTextEnvelope("/back"))
	require.Nil(t, yaErr)

	_, rerr := mr.Push(testKey, string(raw))
	require.NoError(t, rerr)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "/back", got.update)
}
