package yaupdates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/threadsafemap"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaencoding"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

const DefaultPollTimeout = 5 * time.Second

// RedisConfig describes the Redis list carrying updates.
type RedisConfig struct {
	Addr        string        `env:"YAUPDATES_REDIS_ADDR"         env-default:"localhost:6379"`
	Password    string        `env:"YAUPDATES_REDIS_PASSWORD"`
	DB          int           `env:"YAUPDATES_REDIS_DB"           env-default:"0"`
	Key         string        `env:"YAUPDATES_REDIS_KEY"          env-default:"yadispatch:updates"`
	PollTimeout time.Duration `env:"YAUPDATES_REDIS_POLL_TIMEOUT" env-default:"5s"`
}

// NewRedisClient opens a client for cfg.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisSource pops envelopes from a Redis list with BLPOP.
// Next must not be called concurrently.
type RedisSource struct {
	client   *redis.Client
	key      string
	timeout  time.Duration
	decoders *threadsafemap.ThreadSafeMap[string, Decoder]
	backoff  yabackoff.Backoff
	log      yalogger.Logger
}

// NewRedisSource creates a source reading from key.
//
// Example usage:
//
//	source := yaupdates.NewRedisSource(client, "bot:updates", 5*time.Second, log)
//	yaupdates.RegisterKind[PaymentEvent](source, "payment")
func NewRedisSource(client *redis.Client, key string, pollTimeout time.Duration, log yalogger.Logger) *RedisSource {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	backoff := yabackoff.NewExponential(0, 0, 0, 0)

	return &RedisSource{
		client:   client,
		key:      key,
		timeout:  pollTimeout,
		decoders: threadsafemap.NewThreadSafeMap[string, Decoder](),
		backoff:  &backoff,
		log:      log.WithField("redis_key", key),
	}
}

// SetBackoff replaces the strategy used between failed pops.
func (s *RedisSource) SetBackoff(backoff yabackoff.Backoff) {
	s.backoff = backoff
}

// RegisterDecoder installs decoder for envelopes of kind, replacing any previous one.
func (s *RedisSource) RegisterDecoder(kind string, decoder Decoder) {
	s.decoders.Set(kind, decoder)
}

// RegisterKind decodes envelopes of kind into values of type T.
func RegisterKind[T any](s *RedisSource, kind string) {
	s.RegisterDecoder(kind, MessagePackDecoder[T]())
}

// Next blocks until an update is available. Malformed envelopes are logged and
// skipped; transport errors are retried with exponential backoff.
func (s *RedisSource) Next(ctx context.Context) (any, yaerrors.Error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, yaerrors.FromError(http.StatusRequestTimeout, err, "redis source")
		}

		result, err := s.client.BLPop(ctx, s.timeout, s.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil, yaerrors.FromError(http.StatusRequestTimeout, ctx.Err(), "redis source")
			}

			s.log.Warnf("Failed to pop update, backing off: %v", err)

			if waitErr := s.backoff.WaitContext(ctx); waitErr != nil {
				return nil, yaerrors.FromError(http.StatusRequestTimeout, waitErr, "redis source backoff")
			}

			continue
		}

		s.backoff.Reset()

		update, yaErr := s.decode([]byte(result[1]))
		if yaErr != nil {
			s.log.Errorf("Dropping malformed update: %v", yaErr)

			continue
		}

		return update, nil
	}
}

func (s *RedisSource) decode(raw []byte) (any, yaerrors.Error) {
	envelope, err := yaencoding.DecodeMessagePack[Envelope](raw)
	if err != nil {
		return nil, err.Wrap("decode envelope")
	}

	if envelope.Kind == KindText {
		return envelope.Text, nil
	}

	decoder, ok := s.decoders.Get(envelope.Kind)
	if !ok {
		return nil, yaerrors.FromError(
			http.StatusUnprocessableEntity,
			ErrUnknownKind,
			fmt.Sprintf("no decoder for kind %q", envelope.Kind),
		)
	}

	update, err := decoder(envelope.Payload)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusUnprocessableEntity,
			fmt.Errorf("%w: %w", ErrInvalidPayload, err),
			fmt.Sprintf("decode kind %q", envelope.Kind),
		)
	}

	return update, nil
}

// RedisPublisher pushes envelopes onto the list a RedisSource reads.
type RedisPublisher struct {
	client *redis.Client
	key    string
}

func NewRedisPublisher(client *redis.Client, key string) *RedisPublisher {
	return &RedisPublisher{client: client, key: key}
}

// PublishText enqueues a text update.
func (p *RedisPublisher) PublishText(ctx context.Context, text string) yaerrors.Error {
	return p.PublishEnvelope(ctx, NewTextEnvelope(text))
}

// Publish enqueues value as an envelope of kind.
//
// Example usage:
//
//	err := yaupdates.Publish(ctx, publisher, "payment", PaymentEvent{ID: 7})
func Publish[T any](ctx context.Context, p *RedisPublisher, kind string, value T) yaerrors.Error {
	envelope, err := NewEnvelope(kind, value)
	if err != nil {
		return err.Wrap("publish")
	}

	return p.PublishEnvelope(ctx, envelope)
}

// PublishEnvelope enqueues a prepared envelope.
func (p *RedisPublisher) PublishEnvelope(ctx context.Context, envelope Envelope) yaerrors.Error {
	raw, err := yaencoding.EncodeMessagePack(envelope)
	if err != nil {
		return err.Wrap("encode envelope")
	}

	if err := p.client.RPush(ctx, p.key, raw).Err(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "push update to redis")
	}

	return nil
}
