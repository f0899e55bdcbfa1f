// Package session holds the query state of one forecast search box.
//
// Every submission moves the state to pending with a new request id and starts
// one fetch. A fetch result is applied only while its request id is still the
// current one, so a slow response for an old search can never overwrite a newer one.
package session

import (
	"context"
	"sync"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/forecast"
	"weather-forecast/logging"
	"weather-forecast/metrics"
	"weather-forecast/models"
)

// Phase is the stage of the current query
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// State is an immutable snapshot of the query. It is replaced as a whole on every transition.
type State struct {
	Phase     Phase  `json:"phase"`
	RequestID uint64 `json:"requestId"`
	// Input is the text currently in the search box
	Input string `json:"input"`
	// City is the last submitted city
	City string `json:"city,omitempty"`

	// Set only in PhaseSuccess
	Result *models.ForecastResult `json:"result,omitempty"`
	Daily  models.DailySelection  `json:"daily,omitempty"`

	// Set only in PhaseFailed
	Message string `json:"message,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Session manages the query state and the fetches that drive it
type Session struct {
	source       datasource.ForecastSource
	opts         datasource.QueryOptions
	defaultCity  string
	fetchTimeout time.Duration
	logger       *logging.ContextLogger
	metrics      *metrics.Collector
	now          func() time.Time

	mu     sync.RWMutex
	state  State
	nextID uint64
	ctx    context.Context
	wg     sync.WaitGroup
}

// New creates an idle session fetching from source with the configured options
func New(source datasource.ForecastSource, cfg *datasource.Config, logger *logging.StructuredLogger, m *metrics.Collector) *Session {
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Session{
		source:       source,
		opts:         cfg.QueryOptions(),
		defaultCity:  cfg.DefaultCity,
		fetchTimeout: time.Duration(cfg.FetchTimeout),
		logger:       logger.WithFields(logging.Fields{"component": "session", "source": source.Name()}),
		metrics:      m,
		now:          time.Now,
		ctx:          context.Background(),
	}
	s.state = State{Phase: PhaseIdle, UpdatedAt: s.now()}
	s.recordPhase(PhaseIdle)

	return s
}

// SetFetchTimeout changes the timeout for API requests
func (s *Session) SetFetchTimeout(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchTimeout = timeout
}

// Start submits the default city. Fetches run under ctx until the returned
// function is called, which cancels them and waits for them to finish.
func (s *Session) Start(ctx context.Context) func() {
	sessionCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.ctx = sessionCtx
	s.mu.Unlock()

	s.Submit(s.defaultCity)

	return func() {
		// Cancel under the lock so no Submit can add a fetch once Wait begins
		s.mu.Lock()
		cancel()
		s.mu.Unlock()
		s.wg.Wait()
	}
}

// State returns the current snapshot
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetInput records the search box text without changing the phase
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.Input = text
	next.UpdatedAt = s.now()
	s.state = next
}

// Submit starts a search for city and returns its request id.
// The state becomes pending immediately and any previous result or error is dropped.
// Once the session has been stopped Submit does nothing and returns 0.
func (s *Session) Submit(city string) uint64 {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		s.logger.Warn(context.Background(), "[SESSION] search rejected, session stopped", logging.Fields{"city": city})
		return 0
	}

	s.nextID++
	id := s.nextID
	s.state = State{
		Phase:     PhasePending,
		RequestID: id,
		Input:     city,
		City:      city,
		UpdatedAt: s.now(),
	}
	s.recordPhase(PhasePending)
	ctx := s.ctx
	timeout := s.fetchTimeout
	s.wg.Add(1)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordSubmission()
	}
	s.logger.Info(ctx, "[SESSION] search submitted", logging.Fields{"city": city, "request_id": id})

	go s.fetchOnce(ctx, timeout, id, city)

	return id
}

// Wait blocks until every started fetch has been applied or discarded
func (s *Session) Wait() {
	s.wg.Wait()
}

// fetchOnce performs the single fetch for request id
func (s *Session) fetchOnce(ctx context.Context, timeout time.Duration, id uint64, city string) {
	defer s.wg.Done()

	// Create a context with timeout for this specific request
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.source.FetchForecast(fetchCtx, city, s.opts)
	s.apply(ctx, id, city, result, err)
}

// apply settles request id. It reports false when a newer submission made the response stale.
func (s *Session) apply(ctx context.Context, id uint64, city string, result models.ForecastResult, err error) bool {
	s.mu.Lock()

	// Only the latest submission may settle the state
	if id != s.state.RequestID {
		current := s.state.RequestID
		s.mu.Unlock()

		if s.metrics != nil {
			s.metrics.RecordStaleResponse()
		}
		s.logger.Debug(ctx, "[SESSION] stale response discarded", logging.Fields{
			"city":       city,
			"request_id": id,
			"current_id": current,
		})
		return false
	}

	// A failure drops the previous forecast, a success drops the previous message
	var next State
	if err != nil {
		next = State{
			Phase:     PhaseFailed,
			RequestID: id,
			Input:     s.state.Input,
			City:      city,
			Message:   datasource.DisplayMessage(err),
			UpdatedAt: s.now(),
		}
	} else {
		next = State{
			Phase:     PhaseSuccess,
			RequestID: id,
			Input:     s.state.Input,
			City:      city,
			Result:    &result,
			Daily:     forecast.SelectDaily(result.List),
			UpdatedAt: s.now(),
		}
	}
	s.state = next
	s.recordPhase(next.Phase)
	s.mu.Unlock()

	// Log outside the lock
	if err != nil {
		s.logger.Error(ctx, "[SESSION] forecast failed", logging.Fields{"city": city, "request_id": id, "message": next.Message}, err)
		return true
	}

	if s.metrics != nil {
		s.metrics.RecordSelection(len(next.Daily))
	}
	s.logger.Info(ctx, "[SESSION] forecast ready", logging.Fields{
		"city":       city,
		"request_id": id,
		"entries":    len(result.List),
		"days":       len(next.Daily),
	})
	return true
}

func (s *Session) recordPhase(p Phase) {
	if s.metrics != nil {
		s.metrics.SetPhase(string(p))
	}
}
