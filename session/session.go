package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopsmart/api/analytics"
	"shopsmart/api/metrics"
	"shopsmart/api/models"
	"shopsmart/api/store"
)

// ErrInsightPending is returned when an analysis is requested while one is still in flight.
var ErrInsightPending = errors.New("insight request already pending")

// RecentLimit is how many events the dashboard's recent activity list shows.
const RecentLimit = 5

const (
	defaultSinkTimeout = 10 * time.Second
	mirrorBuffer       = 256
	mirrorBatchSize    = 100
)

type InsightState string

const (
	StateIdle    InsightState = "idle"
	StatePending InsightState = "pending"
)

// Analyzer produces an insight for a log snapshot and never fails.
type Analyzer interface {
	Analyze(ctx context.Context, events []models.Event) models.Insight
}

// Snapshot is everything the dashboard renders, captured under one lock.
type Snapshot struct {
	SessionID        string              `json:"sessionId"`
	TotalEvents      int                 `json:"totalEvents"`
	CartCount        int                 `json:"cartCount"`
	TypeDistribution []models.CountEntry `json:"typeDistribution"`
	CategoryInterest []models.CountEntry `json:"categoryInterest"`
	Recent           []models.Event      `json:"recent"`
	InsightState     InsightState        `json:"insightState"`
	Insight          *models.Insight     `json:"insight"`
}

// Session owns the state of one storefront visit: the event log, the cart
// counter and the currently displayed insight. All mutation goes through its methods.
type Session struct {
	id          string
	log         *store.EventLog
	analyzer    Analyzer
	sink        store.EventSink
	sinkTimeout time.Duration
	logger      *slog.Logger

	mu         sync.Mutex
	cart       int
	insight    *models.Insight
	pending    bool
	generation uint64
	subs       map[chan struct{}]struct{}
	closed     bool

	mirrorCh   chan models.Event
	mirrorDone chan struct{}

	wg sync.WaitGroup
}

type Option func(*Session)

func WithEventLog(l *store.EventLog) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSink mirrors every new event to sink from a single background worker,
// in log order and in batches.
func WithSink(sink store.EventSink, timeout time.Duration) Option {
	return func(s *Session) {
		if sink != nil {
			s.sink = sink
		}
		if timeout > 0 {
			s.sinkTimeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(analyzer Analyzer, opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		log:         store.NewEventLog(),
		analyzer:    analyzer,
		sink:        store.NopSink{},
		sinkTimeout: defaultSinkTimeout,
		logger:      slog.Default(),
		subs:        make(map[chan struct{}]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)

	if _, nop := s.sink.(store.NopSink); !nop {
		s.mirrorCh = make(chan models.Event, mirrorBuffer)
		s.mirrorDone = make(chan struct{})
		go s.runMirror()
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Track appends an event of any known type.
func (s *Session) Track(eventType models.EventType, details string, metadata map[string]any) (models.Event, error) {
	if !eventType.Valid() {
		return models.Event{}, fmt.Errorf("track: unknown event type %q", eventType)
	}
	return s.record(eventType, details, metadata), nil
}

// Search records a SEARCH event. Blank queries are ignored and report false.
func (s *Session) Search(query string) (models.Event, bool) {
	if strings.TrimSpace(query) == "" {
		return models.Event{}, false
	}
	details := fmt.Sprintf("User searched for query: \"%s\"", query)
	return s.record(models.EventSearch, details, nil), true
}

func (s *Session) Click(p models.Product) models.Event {
	details := fmt.Sprintf("Clicked product: %s (%s)", p.Name, p.Category)
	return s.record(models.EventClick, details, productMetadata(p))
}

func (s *Session) ViewDetails(p models.Product) models.Event {
	details := fmt.Sprintf("Viewed details: %s (%s)", p.Name, p.Category)
	return s.record(models.EventViewDetails, details, productMetadata(p))
}

// AddToCart records the event and bumps the cart counter.
func (s *Session) AddToCart(p models.Product) models.Event {
	s.mu.Lock()
	s.cart++
	s.mu.Unlock()

	details := fmt.Sprintf("Added to cart: %s - $%.2f", p.Name, p.Price)
	return s.record(models.EventAddToCart, details, productMetadata(p))
}

func (s *Session) record(eventType models.EventType, details string, metadata map[string]any) models.Event {
	event := s.log.AppendWithMetadata(eventType, details, metadata)
	metrics.EventsTracked.WithLabelValues(string(eventType)).Inc()
	s.logger.Debug("event tracked", "event_id", event.ID, "type", eventType)
	s.mirror(event)
	s.notify()
	return event
}

// mirror queues event for the sink worker. A full queue drops the event
// rather than stalling the storefront.
func (s *Session) mirror(event models.Event) {
	if s.mirrorCh == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.mirrorCh <- event:
	default:
		metrics.EventsMirrored.WithLabelValues(metrics.MirrorDropped).Inc()
		s.logger.Warn("mirror queue full, dropping event", "event_id", event.ID)
	}
}

func (s *Session) runMirror() {
	defer close(s.mirrorDone)
	for event := range s.mirrorCh {
		batch := []models.Event{event}
	drain:
		for len(batch) < mirrorBatchSize {
			select {
			case next, ok := <-s.mirrorCh:
				if !ok {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}
		s.flushMirror(batch)
	}
}

func (s *Session) flushMirror(batch []models.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), s.sinkTimeout)
	defer cancel()
	if err := s.sink.Record(ctx, s.id, batch); err != nil {
		metrics.EventsMirrored.WithLabelValues(metrics.MirrorFailed).Add(float64(len(batch)))
		s.logger.Warn("failed to mirror events", "count", len(batch), "error", err)
		return
	}
	metrics.EventsMirrored.WithLabelValues(metrics.MirrorSent).Add(float64(len(batch)))
}

// Clear empties the log and drops the displayed insight. An analysis still in
// flight will be discarded when it returns. The cart counter is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	s.log.Clear()
	s.insight = nil
	s.generation++
	s.mu.Unlock()

	metrics.EventLogClears.Inc()
	s.logger.Info("event log cleared")
	s.notify()
}

func (s *Session) Events() []models.Event {
	return s.log.All()
}

func (s *Session) Recent(n int) []models.Event {
	return s.log.Latest(n)
}

func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Insight returns the displayed insight (nil if none) and whether a request is pending.
func (s *Session) Insight() (*models.Insight, InsightState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneInsight(s.insight), s.state()
}

func (s *Session) state() InsightState {
	if s.pending {
		return StatePending
	}
	return StateIdle
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.log.All()
	return Snapshot{
		SessionID:        s.id,
		TotalEvents:      len(events),
		CartCount:        s.cart,
		TypeDistribution: analytics.TypeDistribution(events),
		CategoryInterest: analytics.CategoryInterest(events),
		Recent:           newestFirst(events, RecentLimit),
		InsightState:     s.state(),
		Insight:          cloneInsight(s.insight),
	}
}

// RequestInsight snapshots the log and starts an analysis in the background.
// The caller's cancellation does not reach the analysis once it has started.
func (s *Session) RequestInsight(ctx context.Context) (*Task, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrInsightPending
	}
	s.pending = true
	gen := s.generation
	events := s.log.All()
	s.mu.Unlock()
	s.notify()

	task := &Task{done: make(chan struct{})}
	actx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		result := s.analyzer.Analyze(actx, events)

		s.mu.Lock()
		discarded := s.generation != gen
		if !discarded {
			in := result
			s.insight = &in
		}
		s.pending = false
		s.mu.Unlock()

		if discarded {
			metrics.InsightsDiscarded.Inc()
			s.logger.Info("discarding insight for cleared event log", "events", len(events))
		}
		task.finish(result, discarded)
		s.notify()
	}()

	return task, nil
}

// Subscribe returns a channel that receives a signal after every state change.
// Signals coalesce; a slow reader sees at most one pending notification.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Wait blocks until background analyses have finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close stops accepting mirror writes, flushes the queued ones and waits for
// in-flight analyses. Events tracked after Close stay in the log only.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if s.mirrorCh != nil {
			close(s.mirrorCh)
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
	if s.mirrorDone != nil {
		<-s.mirrorDone
	}
}

func newestFirst(events []models.Event, n int) []models.Event {
	if n > len(events) {
		n = len(events)
	}
	out := make([]models.Event, 0, n)
	for i := len(events) - 1; i >= len(events)-n; i-- {
		out = append(out, events[i])
	}
	return out
}

func productMetadata(p models.Product) map[string]any {
	return map[string]any{
		"productId": p.ID,
		"category":  p.Category,
		"price":     p.Price,
	}
}

func cloneInsight(in *models.Insight) *models.Insight {
	if in == nil {
		return nil
	}
	out := *in
	out.PredictedInterests = append([]string(nil), in.PredictedInterests...)
	if out.PredictedInterests == nil {
		out.PredictedInterests = []string{}
	}
	return &out
}
