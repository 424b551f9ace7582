package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/server/service"
)

// Server accepts client connections on a TCP listener and hands each one
// to its own Worker goroutine. Stop notifies every live worker before
// waiting for them to drain.
type Server struct {
	contest *service.Contest
	logger  logging.Logger

	listener net.Listener

	mu      sync.Mutex
	workers map[*Worker]struct{}
	wg      sync.WaitGroup
}

func NewServer(contest *service.Contest, logger logging.Logger) *Server {
	return &Server{
		contest: contest,
		logger:  logger.With("module", "server"),
		workers: make(map[*Worker]struct{}),
	}
}

// Start binds the listener and launches the accept loop in a goroutine.
func (s *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.logger.Info(ctx, "listening", "addr", listener.Addr().String())

	go s.acceptLoop(ctx)
	return nil
}

// Addr returns the bound address, useful when starting on port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error(ctx, "accept failed", "error", err.Error())
			return
		}

		worker := NewWorker(s.contest, conn, s.logger)

		s.mu.Lock()
		s.workers[worker] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.remove(worker)
			worker.Run(ctx)
		}()
	}
}

func (s *Server) remove(worker *Worker) {
	s.mu.Lock()
	delete(s.workers, worker)
	s.mu.Unlock()
}

// Stop closes the listener, tells every live worker to shut its
// connection down, and blocks until all worker goroutines have exited.
func (s *Server) Stop(ctx context.Context) {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn(ctx, "closing listener", "error", err.Error())
		}
	}

	s.mu.Lock()
	workers := make([]*Worker, 0, len(s.workers))
	for w := range s.workers {
		workers = append(workers, w)
	}
	s.mu.Unlock()

	for _, w := range workers {
		w.Shutdown(ctx)
	}

	s.wg.Wait()
	s.logger.Info(ctx, "stopped")
}
