package main

import (
	"flag"
	"log"

	"FlowSKMV/internal/config"
	"FlowSKMV/internal/ingest"
)

// skmv-feed reads records from a file and republishes them onto NATS for
// skmv-engine's "nats" ingest source to consume — the feeder role the
// teacher's ns-probe filled in "pub" mode, adapted to this package's
// record shape instead of captured packets.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	filePath := flag.String("file", "", "path to the record file to feed (overrides ingest.file_path)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	source := cfg.Ingest.FilePath
	if *filePath != "" {
		source = *filePath
	}

	pub, err := ingest.NewPublisher(cfg.Ingest)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	published := 0
	err = ingest.ReadFile(source, func(r ingest.Record) {
		if pubErr := pub.Publish(r); pubErr != nil {
			log.Printf("skmv-feed: failed to publish record: %v", pubErr)
			return
		}
		published++
		if published%1000 == 0 {
			log.Printf("skmv-feed: %d records published...", published)
		}
	})
	if err != nil {
		log.Fatalf("Failed to read %q: %v", source, err)
	}

	log.Printf("skmv-feed: done, %d records published from %q", published, source)
}
