package ingest

import (
	"log"

	"github.com/nats-io/nats.go"

	"FlowSKMV/internal/config"
)

// Publisher publishes Records to a NATS subject for downstream engines to
// consume. It exists for feeders that sit in front of skmv-engine (e.g. a
// probe translating some other event stream into Records).
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg config.IngestConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("ingest: connected to NATS server at %s", cfg.NATSURL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Publish encodes and publishes a single Record.
func (p *Publisher) Publish(r Record) error {
	return p.nc.Publish(p.subject, encodeRecord(r))
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("ingest: NATS publisher connection drained and closed")
	}
}
