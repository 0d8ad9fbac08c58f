// Package server exposes a plan over a local HTTP API with a change
// event feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/projection"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	PlanPath     string // empty keeps the plan in memory only
	Defaults     model.Defaults
}

// Event is emitted whenever the plan changes.
type Event struct {
	ID        int64                    `json:"id"`
	UUID      string                   `json:"uuid"`
	Type      string                   `json:"type"`
	Op        string                   `json:"op,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
	Goals     int                      `json:"goals"`
	Sources   int                      `json:"sources"`
	Totals    model.Totals             `json:"totals"`
	Rounded   projection.RoundedTotals `json:"rounded_totals"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	PlanPath        string    `json:"plan_path,omitempty"`
	Mutations       int64     `json:"mutations"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service holds the current plan and serves it over HTTP.
type Service struct {
	cfg     Config
	log     *zap.Logger
	reg     *prometheus.Registry
	metrics *metrics

	mu          sync.RWMutex
	plan        model.Plan
	startedAt   time.Time
	mutations   int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service seeded with plan.
func New(cfg Config, plan model.Plan, log *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if log == nil {
		log = zap.NewNop()
	}

	reg := prometheus.NewRegistry()
	return &Service{
		cfg:       cfg,
		log:       log,
		reg:       reg,
		metrics:   newMetrics(reg),
		plan:      plan.Clone(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("serving plan", zap.String("addr", s.cfg.Addr), zap.String("plan", s.cfg.PlanPath))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// Plan returns a copy of the current plan.
func (s *Service) Plan() model.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.Clone()
}

// Projection projects the current plan.
func (s *Service) Projection() model.Projection {
	p := s.Plan()
	start := time.Now()
	proj := projection.Project(p)
	s.metrics.projectionTime.Observe(time.Since(start).Seconds())
	return proj
}

// mutate applies fn to the current plan. On success the result is
// persisted (when a plan path is set), becomes the current plan, and a
// plan_changed event is published. On failure nothing changes.
func (s *Service) mutate(op string, fn func(model.Plan) (model.Plan, error)) (model.Plan, error) {
	s.mu.Lock()
	next, err := fn(s.plan.Clone())
	if err == nil && s.cfg.PlanPath != "" {
		if saveErr := planfile.Save(s.cfg.PlanPath, next); saveErr != nil {
			err = fmt.Errorf("persisting plan: %w", saveErr)
			s.lastError = err.Error()
		}
	}
	if err != nil {
		s.mu.Unlock()
		s.metrics.mutations.WithLabelValues(op, "error").Inc()
		s.log.Debug("mutation rejected", zap.String("op", op), zap.Error(err))
		return model.Plan{}, err
	}

	s.plan = next
	s.mutations++
	s.lastError = ""
	s.nextEventID++
	ev := s.newEvent(s.nextEventID, "plan_changed", op, next)
	s.mu.Unlock()

	s.metrics.mutations.WithLabelValues(op, "ok").Inc()
	s.log.Info("plan changed",
		zap.String("op", op),
		zap.Int("goals", ev.Goals),
		zap.Int64("total_sip", ev.Rounded.SIP),
	)
	s.publishEvent(ev)
	return next.Clone(), nil
}

func (s *Service) newEvent(id int64, typ, op string, p model.Plan) Event {
	start := time.Now()
	totals := projection.Project(p).Totals
	s.metrics.projectionTime.Observe(time.Since(start).Seconds())

	return Event{
		ID:        id,
		UUID:      uuid.NewString(),
		Type:      typ,
		Op:        op,
		Timestamp: time.Now(),
		Goals:     len(p.Goals),
		Sources:   len(p.Sources),
		Totals:    totals,
		Rounded:   projection.RoundTotals(totals),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		PlanPath:        s.cfg.PlanPath,
		Mutations:       s.mutations,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.metrics.subscribers.Inc()
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
	s.metrics.subscribers.Dec()
}
