package api

import "log/slog"

// Builder is an interface for constructing a command log client.
type Builder interface {
	// Build constructs the client. It returns an error if required
	// components are missing or a default backend cannot be initialized.
	Build() (CommandLog, error)

	// WithConfig sets the client configuration.
	// If not provided, a DefaultConfig will be used.
	WithConfig(*ClientConfig) Builder

	// WithConsumer sets a custom read-side connection. If not provided, a
	// Kafka-backed consumer is dialed from the configured backend settings.
	WithConsumer(ShardConsumer) Builder

	// WithProducer sets a custom write-side connection. If not provided, a
	// Kafka-backed producer is built from the configured backend settings.
	WithProducer(ShardProducer) Builder

	// WithLogger sets a custom slog.Logger. If not provided, a default
	// logger based on the config's Log.Env will be used.
	WithLogger(*slog.Logger) Builder
}
