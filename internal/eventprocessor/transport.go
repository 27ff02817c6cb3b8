// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/marquee/internal/config"
)

// Transport is the pub/sub pair the dispatcher publishes to and the router
// consumes from.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	name    string
	server  *EmbeddedServer
	conn    *natsgo.Conn
	streams *StreamInitializer
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(ctx context.Context, cfg *config.QueueConfig, logger watermill.LoggerAdapter) (*Transport, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	switch cfg.Transport {
	case config.TransportGoChannel, "":
		return NewGoChannelTransport(cfg.Workers, logger), nil
	case config.TransportNATS:
		return newNATSTransport(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown queue transport %q", ErrInvalidConfig, cfg.Transport)
	}
}

// NewGoChannelTransport returns an in-process transport. Messages published
// while no handler is subscribed are dropped.
func NewGoChannelTransport(workers int, logger watermill.LoggerAdapter) *Transport {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(workers * 64),
	}, logger)

	return &Transport{
		Publisher:  pubSub,
		Subscriber: pubSub,
		name:       config.TransportGoChannel,
	}
}

func newNATSTransport(ctx context.Context, cfg *config.QueueConfig, logger watermill.LoggerAdapter) (_ *Transport, err error) {
	t := &Transport{name: config.TransportNATS}
	defer func() {
		if err != nil {
			_ = t.Close()
		}
	}()

	natsURL := cfg.NATS.URL
	if cfg.NATS.EmbeddedServer {
		serverCfg, cfgErr := ServerConfigFromNATS(&cfg.NATS)
		if cfgErr != nil {
			return nil, cfgErr
		}
		t.server, err = NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		natsURL = t.server.ClientURL()
		logger.Info("Embedded NATS server started", watermill.LogFields{"url": natsURL})
	}

	t.conn, err = natsgo.Connect(natsURL, natsOptions("marquee-admin", logger)...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(t.conn)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	poisonTopic := ""
	if cfg.RouterPoisonQueueEnabled {
		poisonTopic = cfg.RouterPoisonQueueTopic
	}
	streamCfg := JobStreamConfig(poisonTopic, time.Duration(cfg.NATS.StreamRetentionDays)*24*time.Hour, cfg.NATS.MaxStore)
	t.streams, err = NewStreamInitializer(js, &streamCfg)
	if err != nil {
		return nil, err
	}
	if _, err = t.streams.EnsureStream(ctx); err != nil {
		return nil, err
	}

	t.Publisher, err = wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: natsOptions("marquee-publisher", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // the job stream is created above
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	t.Subscriber, err = wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              natsURL,
		QueueGroupPrefix: cfg.NATS.QueueGroup,
		SubscribersCount: workers,
		AckWaitTimeout:   cfg.NATS.AckWait,
		CloseTimeout:     cfg.RouterCloseTimeout,
		NatsOptions:      natsOptions("marquee-worker", logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			AckAsync:      false,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(streamCfg.Name),
				natsgo.DeliverAll(),
				natsgo.AckWait(cfg.NATS.AckWait),
				natsgo.MaxDeliver(5),
				natsgo.MaxAckPending(workers * 16),
			},
			DurablePrefix: cfg.NATS.DurableName,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return t, nil
}

func natsOptions(name string, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name(name),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, watermill.LogFields{"client": name})
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"client": name,
				"url":    nc.ConnectedUrl(),
			})
		}),
	}
}

// Name returns the transport name: "gochannel" or "nats".
func (t *Transport) Name() string {
	return t.name
}

// RegisterHealth adds the transport's components to h.
func (t *Transport) RegisterHealth(h *HealthChecker) {
	if t.server != nil {
		h.RegisterComponent("nats_server", t.server)
	}
	if t.conn != nil {
		conn := t.conn
		h.RegisterComponent("nats_connection", HealthCheckFunc(func(context.Context) error {
			if !conn.IsConnected() {
				return fmt.Errorf("NATS connection %s", conn.Status())
			}
			return nil
		}))
	}
	if t.streams != nil {
		h.RegisterComponent("jetstream", t.streams)
	}
}

// Close closes the subscriber, the publisher, the admin connection and the
// embedded server, in that order.
func (t *Transport) Close() error {
	var errs []error

	if t.Subscriber != nil {
		if err := t.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	// gochannel uses one value for both roles.
	if t.Publisher != nil && t.name != config.TransportGoChannel {
		if err := t.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if t.conn != nil {
		t.conn.Close()
	}
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown NATS server: %w", err))
		}
	}

	return errors.Join(errs...)
}
