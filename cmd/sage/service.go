package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cosmotree/sage/internal/common/service"
	"github.com/cosmotree/sage/internal/eventbus"
	"github.com/cosmotree/sage/internal/monitor"
)

// runService adapts internal/common/service.BaseService into the batch
// run's own lifecycle wrapper: Initialize wires the progress event bus
// and (if requested) the monitor hub, Start brings up the optional HTTP
// surface, and Stop tears both down — the same Initialize/Start/Stop/
// Health shape the teacher's game.Service followed, here reporting the
// health of a long `sage --monitor-addr addr <parameter-file>` run instead of a
// game session.
type runService struct {
	*service.BaseService

	logger      *zap.Logger
	monitorAddr string

	bus eventbus.EventBus

	hubCancel context.CancelFunc
	httpSrv   *http.Server
}

func newRunService(logger *zap.Logger, monitorAddr string) *runService {
	return &runService{
		BaseService: service.NewBaseService("sage-run"),
		logger:      logger,
		monitorAddr: monitorAddr,
		bus:         eventbus.NewInMemoryBus(),
	}
}

func (s *runService) Initialize(ctx context.Context) error {
	if err := s.BaseService.Initialize(ctx); err != nil {
		return err
	}
	if s.monitorAddr == "" {
		return nil
	}

	progress := monitor.NewProgress()
	hub := monitor.NewHub(s.logger)

	hubCtx, cancel := context.WithCancel(ctx)
	s.hubCancel = cancel
	go hub.Run(hubCtx)

	if err := monitor.Subscribe(hubCtx, s.bus, progress, hub); err != nil {
		cancel()
		return err
	}

	srv := monitor.NewServer(monitor.Config{Address: s.monitorAddr}, progress, hub)
	s.httpSrv = &http.Server{Addr: s.monitorAddr, Handler: srv.Handler()}
	return nil
}

func (s *runService) Start(ctx context.Context) error {
	if s.httpSrv != nil {
		go func() {
			if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("monitor server error", zap.Error(err))
			}
		}()
		s.logger.Info("monitor listening", zap.String("addr", s.monitorAddr))
	}
	return s.BaseService.Start(ctx)
}

func (s *runService) Stop(ctx context.Context) error {
	if s.hubCancel != nil {
		s.hubCancel()
	}
	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}
	return s.BaseService.Stop(ctx)
}
