package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"FlowSKMV/internal/config"
	"FlowSKMV/internal/ingest"
	"FlowSKMV/internal/metrics"
	"FlowSKMV/internal/skmv"
	"FlowSKMV/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	log.Println("Starting skmv-engine...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	sk, err := skmv.New(cfg.Sketch.WindowSize, cfg.Sketch.K, cfg.Sketch.M, cfg.Sketch.Delta1, cfg.Sketch.Delta2)
	if err != nil {
		log.Fatalf("Failed to construct sketch: %v", err)
	}

	cleanInterval, err := resolveCleanInterval(cfg.Sketch.CleanInterval, cfg.Sketch.WindowSize)
	if err != nil {
		log.Fatalf("Invalid clean_interval: %v", err)
	}
	log.Printf("Clean interval resolved to %v (window=%d)", cleanInterval, cfg.Sketch.WindowSize)

	writers, err := snapshot.BuildWriters(cfg.Writers, cleanInterval)
	if err != nil {
		log.Fatalf("Failed to build snapshot writers: %v", err)
	}

	e := &engine{sketch: sk, writers: writers}

	source, closeSource, err := startSource(cfg.Ingest, e.handleRecord)
	if err != nil {
		log.Fatalf("Failed to start ingest source: %v", err)
	}
	log.Printf("Ingesting from source %q", source)

	ticker := time.NewTicker(cleanInterval)
	defer ticker.Stop()
	stop := make(chan struct{})
	go e.runCleanLoop(ticker, stop)

	httpServer := e.startHTTPServer(cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received, stopping engine...")
	close(stop)
	closeSource()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if httpServer != nil {
		httpServer.Shutdown(ctx)
	}
	log.Println("Shutdown complete.")
}

// resolveCleanInterval parses the configured clean interval and clamps it
// to at most N/2 time units so no AT ever goes two full windows without
// cleaning (spec.md §4.1, §7 "missed cleaning deadline"). The clean
// interval is expressed in wall-clock time here even though N is a
// stream-time quantity; skmv-engine treats one wall-clock second as one
// unit of stream time (each tick cleans at the current Unix time), which
// holds as long as the ingest source feeds records at roughly real-time
// pace.
func resolveCleanInterval(configured string, n uint64) (time.Duration, error) {
	maxInterval := time.Duration(n/2) * time.Second
	if maxInterval <= 0 {
		return 0, fmt.Errorf("window_size %d leaves no positive N/2 clean interval", n)
	}
	if configured == "" {
		return maxInterval, nil
	}
	d, err := time.ParseDuration(configured)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("clean_interval %v must be positive", d)
	}
	if d > maxInterval {
		log.Printf("configured clean_interval %v exceeds N/2 (%v); clamping", d, maxInterval)
		return maxInterval, nil
	}
	return d, nil
}

// engine wires a sketch to its ingest source, snapshot writers, and
// metrics.
type engine struct {
	mu                  sync.Mutex
	sketch              *skmv.Sketch
	writers             []snapshot.Writer
	lastLockActivations float64
}

func (e *engine) handleRecord(r ingest.Record) {
	e.mu.Lock()
	e.sketch.Record(r.FlowLabel, r.ElementID, r.Timestamp)
	e.mu.Unlock()
	metrics.RecordsIngested.Inc()
}

func (e *engine) runCleanLoop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			e.cleanAndSnapshot(uint64(now.Unix()))
		}
	}
}

func (e *engine) cleanAndSnapshot(t uint64) {
	start := time.Now()

	e.mu.Lock()
	e.sketch.PeriodicClean(t)
	estimate := e.sketch.Estimate()
	window := e.sketch.WindowSize()
	k := e.sketch.K()
	m := e.sketch.M()
	lockActivations := e.sketch.LockActivations()
	e.mu.Unlock()

	metrics.CleanDuration.Observe(time.Since(start).Seconds())
	metrics.CurrentEstimate.Set(estimate)
	metrics.LockActivations.Add(float64(lockActivations) - e.lastLockActivations)
	e.lastLockActivations = float64(lockActivations)

	snap := snapshot.EstimateSnapshot{Timestamp: time.Now().UTC(), Window: window, K: k, M: m, Estimate: estimate}
	timestamp := snap.Timestamp.Format("2006-01-02_15-04-05")
	for _, w := range e.writers {
		if err := w.Write(snap, timestamp); err != nil {
			log.Printf("snapshot write failed: %v", err)
		}
	}
}

// startSource starts the configured ingest source and returns a label
// plus a close function. The returned close function is always safe to
// call, even if the source was a one-shot file read that already
// finished.
func startSource(cfg config.IngestConfig, handle ingest.Handler) (string, func(), error) {
	switch cfg.Source {
	case "file":
		go func() {
			if err := ingest.ReadFile(cfg.FilePath, handle); err != nil {
				log.Printf("file ingest stopped: %v", err)
			}
		}()
		return cfg.FilePath, func() {}, nil
	case "nats":
		sub, err := ingest.NewSubscriber(cfg)
		if err != nil {
			return "", nil, err
		}
		if err := sub.Start(handle); err != nil {
			return "", nil, err
		}
		return cfg.Subject, sub.Close, nil
	default:
		return "", nil, fmt.Errorf("unknown ingest source: %q", cfg.Source)
	}
}

// startHTTPServer exposes the live estimate and Prometheus metrics.
func (e *engine) startHTTPServer(cfg *config.Config) *http.Server {
	if cfg.Metrics.ListenAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/estimate", e.serveLiveEstimate)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
	go func() {
		log.Printf("metrics/estimate server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()
	return server
}

func (e *engine) serveLiveEstimate(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	estimate := e.sketch.Estimate()
	t := e.sketch.CurrentTime()
	e.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		CurrentTime uint64  `json:"current_time"`
		Estimate    float64 `json:"estimate"`
	}{CurrentTime: t, Estimate: estimate})
}
