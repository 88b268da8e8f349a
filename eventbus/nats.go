package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wakewell/servicekit/errors"
	"github.com/wakewell/servicekit/service"
)

// subjectPrefix roots every published event subject
const subjectPrefix = "wakewell.events"

// NATS publishes service events to a NATS broker as JSON messages on
// subjects of the form wakewell.events.<service>.<event>.
type NATS struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// ConnectNATS dials the broker and returns a publisher over the connection
func ConnectNATS(url string, logger *slog.Logger) (*NATS, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(url,
		nats.Name("wakewell-eventbus"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.WrapWithSeverity(errors.SeverityMedium, err,
			"eventbus", "ConnectNATS", "connect to broker")
	}

	return &NATS{conn: conn, logger: logger}, nil
}

// Publish sends the event as JSON
func (n *NATS) Publish(_ context.Context, event service.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "eventbus", "Publish", "encode event")
	}
	if err := n.conn.Publish(subject(event), payload); err != nil {
		return errors.WrapWithSeverity(errors.SeverityMedium, err,
			"eventbus", "Publish", "publish event")
	}
	return nil
}

// Close drains the connection so buffered publishes flush before shutdown
func (n *NATS) Close() error {
	if err := n.conn.Drain(); err != nil {
		return errors.Wrap(err, "eventbus", "Close", "drain connection")
	}
	return nil
}

// subject maps an event to its NATS subject. Event names use ':' as a
// namespace separator, which is not a legal subject character.
func subject(event service.Event) string {
	name := strings.ReplaceAll(event.Name, ":", "_")
	return subjectPrefix + "." + event.Service + "." + name
}
