package livequery

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/evanor/arexxd/internal/infrastructure/config"
	"github.com/evanor/arexxd/internal/sensor"
)

// writeTimeout bounds the response write so a stalled client cannot
// pin a handler goroutine.
const writeTimeout = 10 * time.Second

// Logger is the logging surface the server needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Server is the TCP live-query responder and its cache, exposed to the
// dispatcher as a sink.
//
// Each accepted connection immediately receives the full cache snapshot
// and is closed; it is a pull-only, stateless-per-connection query. No
// request body is read.
//
// If the listening socket cannot be bound, the cache keeps operating in
// write-only mode: the failure is logged and the bind is retried on
// every delivery until it succeeds.
type Server struct {
	cfg   config.LiveQueryConfig
	cache *Cache
	log   Logger

	mu       sync.Mutex
	ln       net.Listener
	ready    bool
	shutdown bool
	wg       sync.WaitGroup
}

// NewServer creates the live-query server. Call Start to attempt the
// initial bind.
func NewServer(cfg config.LiveQueryConfig, log Logger) *Server {
	return &Server{
		cfg:   cfg,
		cache: NewCache(),
		log:   log,
	}
}

// Cache exposes the underlying cache, mainly for tests.
func (s *Server) Cache() *Cache {
	return s.cache
}

// Name implements sink.Sink.
func (s *Server) Name() string { return "livequery" }

// Start attempts to bind the listening socket. A bind failure is
// logged and not fatal: the server stays in write-only mode and
// retries on the next delivery.
func (s *Server) Start() {
	if err := s.tryBind(); err != nil {
		s.log.Error("live-query bind failed, serving in write-only mode",
			"addr", s.addr(),
			"error", err,
		)
	}
}

// Deliver implements sink.Sink: it upserts the cache and opportunistically
// retries the bind while the listening socket is down.
func (s *Server) Deliver(r sensor.Reading, sen *sensor.Sensor) error {
	s.cache.Update(r, sen)

	if !s.Ready() {
		if err := s.tryBind(); err != nil {
			return fmt.Errorf("live-query bind retry: %w", err)
		}
	}
	return nil
}

// Ready reports whether the listening socket is bound.
func (s *Server) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Addr returns the bound listener address, or the empty string while
// the server is in write-only mode.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// tryBind binds the listener and starts the accept loop. Safe to call
// repeatedly; it is a no-op while the server is ready or shut down.
func (s *Server) tryBind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready || s.shutdown {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr(), err)
	}

	s.ln = ln
	s.ready = true
	s.log.Info("live-query listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go s.acceptLoop(ln)

	return nil
}

// acceptLoop serves connections until the listener is closed. If the
// listener fails unexpectedly, readiness is dropped so the next
// delivery rebinds.
func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("live-query accept failed", "error", err)
			s.mu.Lock()
			s.ready = false
			s.mu.Unlock()
			ln.Close()
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serve(conn)
		}()
	}
}

// serve writes the snapshot to one client and closes the connection.
func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write([]byte(s.cache.Snapshot())); err != nil {
		s.log.Debug("live-query response write failed",
			"remote", conn.RemoteAddr().String(),
			"error", err,
		)
	}
}

// Close shuts the listener down and waits for in-flight handlers.
func (s *Server) Close() error {
	s.mu.Lock()
	s.shutdown = true
	s.ready = false
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	s.wg.Wait()
	return nil
}
