package ingest

import (
	"log"

	"github.com/nats-io/nats.go"

	"FlowSKMV/internal/config"
)

// Subscriber subscribes to a NATS subject and dispatches decoded Records
// to a Handler as they arrive.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber connects to the configured NATS server.
func NewSubscriber(cfg config.IngestConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("ingest: connected to NATS server at %s", cfg.NATSURL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and invokes handle for every
// record received. Records the caller cannot decode are logged and
// dropped rather than killing the subscription.
func (s *Subscriber) Start(handle Handler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		r, err := decodeRecord(msg.Data)
		if err != nil {
			log.Printf("ingest: dropping malformed message on %q: %v", s.subject, err)
			return
		}
		handle(r)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("ingest: subscribed to %q, waiting for records...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("ingest: NATS subscriber connection closed")
	}
}
