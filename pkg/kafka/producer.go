package kafka

import (
	"context"
	"fmt"
	"sync/atomic"

	kgo "github.com/segmentio/kafka-go"

	"github.com/shrtyk/cmdlog/api"
)

var _ api.ShardProducer = (*Producer)(nil)

// Producer is the write side. Sends go through a broker client pinned to the
// configured partition and wait for acknowledgment from all in-sync
// replicas, so a returned offset means the record is durable. Safe for
// concurrent use.
type Producer struct {
	client    *kgo.Client
	transport *kgo.Transport
	stream    string
	shard     int
	closed    atomic.Bool
}

func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	transport := &kgo.Transport{
		ClientID: cfg.Props["client.id"],
	}
	client := &kgo.Client{
		Addr:      kgo.TCP(cfg.Brokers...),
		Timeout:   cfg.AppendTimeout,
		Transport: transport,
	}

	return &Producer{
		client:    client,
		transport: transport,
		stream:    cfg.Stream,
		shard:     cfg.Shard,
	}, nil
}

// Send blocks until the broker acknowledges the record or the append
// timeout expires, and returns the assigned offset. No retry is performed;
// on failure the caller cannot assume whether the record was recorded.
func (p *Producer) Send(key, value []byte) (int64, error) {
	if p.closed.Load() {
		return 0, api.ErrClosed
	}

	resp, err := p.client.Produce(context.Background(), &kgo.ProduceRequest{
		Topic:        p.stream,
		Partition:    p.shard,
		RequiredAcks: kgo.RequireAll,
		Records: kgo.NewRecordReader(kgo.Record{
			Key:   kgo.NewBytes(key),
			Value: kgo.NewBytes(value),
		}),
	})
	if err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, resp.Error
	}
	return resp.BaseOffset, nil
}

func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.transport.CloseIdleConnections()
	return nil
}
