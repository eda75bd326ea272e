// Package server exposes decoded fibers and their zone membership over HTTP
// for the rendering layer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/render"
	"github.com/sanonone/fibermap/pkg/zone"
)

// Dataset is everything the server publishes. A Dataset is never modified
// once built; reloading swaps in a new one.
type Dataset struct {
	Fibers    fiber.FiberSet
	Encoded   []byte
	Stats     fiber.Stats
	Layout    zone.Layout
	Report    *zone.Report
	Palette   render.Palette
	BaseColor uint32
	// Positions holds the placed geometry of each model, as analyzed.
	Positions []render.PositionBuffer
}

// NewDataset encodes fs once and bundles it with the analysis report.
func NewDataset(fs fiber.FiberSet, layout zone.Layout, report *zone.Report, palette render.Palette, base uint32) (*Dataset, error) {
	encoded, err := fiber.Encode(fs)
	if err != nil {
		return nil, err
	}
	positions := make([]render.PositionBuffer, len(report.Models))
	for m := range positions {
		positions[m] = render.Positions(layout.Place(fs, m))
	}
	return &Dataset{
		Fibers:    fs,
		Encoded:   encoded,
		Stats:     fiber.ComputeStats(fs),
		Layout:    layout,
		Report:    report,
		Palette:   palette,
		BaseColor: base,
		Positions: positions,
	}, nil
}

// Server holds the HTTP interface and the published dataset.
type Server struct {
	data       atomic.Pointer[Dataset]
	handler    http.Handler
	httpServer *http.Server
}

// NewServer wires routes and middlewares around data.
func NewServer(data *Dataset, httpAddr string) *Server {
	s := &Server{}
	s.data.Store(data)

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain middlewares: Recovery -> Logging -> Mux
	var handler http.Handler = mux
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	rootMux.Handle("/", handler)

	s.handler = rootMux
	s.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           rootMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Dataset returns the dataset currently served.
func (s *Server) Dataset() *Dataset {
	return s.data.Load()
}

// SetDataset atomically replaces the served dataset.
func (s *Server) SetDataset(d *Dataset) {
	s.data.Store(d)
}

// Handler returns the root handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown() {
	slog.Info("Starting graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}
