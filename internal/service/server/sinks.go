package server

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/oshokin/safety-checkin/internal/config"
	"github.com/oshokin/safety-checkin/internal/logger"
	"github.com/oshokin/safety-checkin/internal/notify"
	"github.com/oshokin/safety-checkin/internal/repository/journal"
)

// sinks is the notifier fan-out built from settings together with the
// connections it owns.
type sinks struct {
	notifier notify.Fanout
	closers  []io.Closer
}

// newSinks builds the notice sinks enabled in settings. The log sink is always present.
func newSinks(ctx context.Context, n *config.Notifiers, journalFile string) *sinks {
	s := &sinks{
		notifier: notify.Fanout{notify.NewLog(nil)},
	}

	if n.Webhook != nil {
		s.notifier = append(s.notifier, notify.NewWebhook(n.Webhook.URL, notify.WithAttempts(n.Webhook.MaxRetries)))
		logger.InfoKV(ctx, "Webhook notifier enabled", "url", n.Webhook.URL)
	}

	if n.Redis != nil {
		client := redis.NewClient(&redis.Options{
			Addr:     n.Redis.Addr,
			Password: n.Redis.Password,
			DB:       n.Redis.DB,
		})

		s.notifier = append(s.notifier, notify.NewRedisQueue(client, n.Redis.Key))
		s.closers = append(s.closers, client)
		logger.InfoKV(ctx, "Redis notifier enabled", "addr", n.Redis.Addr, "key", n.Redis.Key)
	}

	if n.Kafka != nil {
		writer := notify.NewKafkaWriter(n.Kafka.Brokers, n.Kafka.Topic)

		s.notifier = append(s.notifier, notify.NewKafka(writer))
		s.closers = append(s.closers, writer)
		logger.InfoKV(ctx, "Kafka notifier enabled", "brokers", n.Kafka.Brokers, "topic", n.Kafka.Topic)
	}

	if journalFile != "" {
		s.notifier = append(s.notifier, notify.NewJournal(journal.NewFileJournal(journalFile)))
		logger.InfoKV(ctx, "Journal notifier enabled", "file", journalFile)
	}

	return s
}

// Close releases the sink connections.
func (s *sinks) Close() error {
	var err error

	for _, closer := range s.closers {
		err = multierr.Append(err, closer.Close())
	}

	if err != nil {
		return fmt.Errorf("close notifiers: %w", err)
	}

	return nil
}
