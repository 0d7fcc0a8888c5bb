package cmdlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/pkg/kafka"
	"github.com/shrtyk/cmdlog/pkg/logger"
)

type builder struct {
	// required
	stream string

	// optional with defaults
	consumer api.ShardConsumer
	producer api.ShardProducer
	cfg      *api.ClientConfig
	logger   *slog.Logger
}

// NewBuilder returns a builder for a client bound to one shard of the named
// stream. With no consumer or producer injected, Build dials Kafka-backed
// ones from the configured backend settings.
func NewBuilder(stream string) api.Builder {
	return &builder{
		stream: stream,
		cfg:    DefaultConfig(),
	}
}

func (b *builder) Build() (api.CommandLog, error) {
	if b.stream == "" {
		return nil, errors.New("builder: stream name is required")
	}

	log := b.logger
	if log == nil {
		log = logger.NewLogger(b.cfg.Log.Env, false).With(
			slog.String("stream", b.stream), slog.Int("shard", b.cfg.Shard))
	}

	consumer := b.consumer
	if consumer == nil {
		var err error
		consumer, err = kafka.NewConsumer(context.Background(), kafka.Config{
			Brokers:     b.cfg.Backend.Brokers,
			Stream:      b.stream,
			Shard:       b.cfg.Shard,
			DialTimeout: b.cfg.Timings.DialTimeout,
			Props:       b.cfg.Backend.Reader,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("builder: failed to bind read side: %w", err)
		}
	}

	producer := b.producer
	if producer == nil {
		p, err := kafka.NewProducer(kafka.Config{
			Brokers:       b.cfg.Backend.Brokers,
			Stream:        b.stream,
			Shard:         b.cfg.Shard,
			AppendTimeout: b.cfg.Timings.AppendTimeout,
			Props:         b.cfg.Backend.Writer,
		})
		if err != nil {
			_ = consumer.Close()
			return nil, fmt.Errorf("builder: failed to build write side: %w", err)
		}
		producer = p
	}

	return &CommandLog{
		logger:   log,
		cfg:      b.cfg,
		consumer: consumer,
		producer: producer,
	}, nil
}

func (b *builder) WithConfig(cfg *api.ClientConfig) api.Builder {
	b.cfg = cfg
	return b
}

func (b *builder) WithConsumer(c api.ShardConsumer) api.Builder {
	b.consumer = c
	return b
}

func (b *builder) WithProducer(p api.ShardProducer) api.Builder {
	b.producer = p
	return b
}

func (b *builder) WithLogger(l *slog.Logger) api.Builder {
	b.logger = l
	return b
}
