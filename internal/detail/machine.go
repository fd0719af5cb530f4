package detail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
)

// Repository fetches one mystery box with distances measured from loc.
type Repository interface {
	FetchMysteryBoxDetails(ctx context.Context, id string, loc domain.Coordinates) (*domain.MysteryBox, error)
}

// LocationProvider reports the device position. ok is false when the
// location cannot be determined; providers do not return errors.
type LocationProvider interface {
	UserLocation(ctx context.Context) (loc domain.Coordinates, ok bool)
}

// Machine sequences a single fetch for the detail screen:
//
//	Idle -> Loading -> Success | Error
//
// Success and Error are terminal until Reset. Only one fetch is ever in
// flight. Results arriving after Reset or Close are dropped.
type Machine struct {
	repo    Repository
	locator LocationProvider
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	cancel  context.CancelFunc
	subs    map[uint64]*subscription
	nextSub uint64
	closed  bool

	// inflight counts running fetches; idle is signalled when it drops.
	inflight int
	idle     *sync.Cond
}

// NewMachine returns a machine in the Idle state.
func NewMachine(repo Repository, locator LocationProvider, logger *slog.Logger) *Machine {
	m := &Machine{
		repo:    repo,
		locator: locator,
		logger:  logger,
		state:   Idle(),
		subs:    make(map[uint64]*subscription),
	}
	m.idle = sync.NewCond(&m.mu)
	return m
}

// State returns the latest state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Enter is called when the screen is shown. From Idle it asks the locator
// for the device position and starts a fetch. An unavailable location leaves
// the machine Idle without surfacing an error. It reports whether a fetch
// was started.
func (m *Machine) Enter(ctx context.Context, id string) bool {
	if m.State().Status != StatusIdle {
		return false
	}

	loc, ok := m.locator.UserLocation(ctx)
	if !ok {
		m.logger.WarnContext(ctx, "device location unavailable, detail fetch not started",
			slog.String("mystery_box_id", id),
		)
		return false
	}
	m.logger.DebugContext(ctx, "fetching mystery box details",
		slog.String("mystery_box_id", id),
		slog.String("location", loc.String()),
	)
	return m.RequestFetch(ctx, id, loc)
}

// RequestFetch moves Idle to Loading and fetches on a separate goroutine.
// In any other state, or after Close, it does nothing and returns false.
func (m *Machine) RequestFetch(ctx context.Context, id string, loc domain.Coordinates) bool {
	m.mu.Lock()
	if m.closed || m.state.Status != StatusIdle {
		current := m.state
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "fetch request ignored",
			slog.String("mystery_box_id", id),
			slog.String("state", current.Status.String()),
		)
		return false
	}

	m.gen++
	gen := m.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.setLocked(Loading())
	m.inflight++
	m.mu.Unlock()

	go m.fetch(fetchCtx, cancel, gen, id, loc)
	return true
}

func (m *Machine) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, id string, loc domain.Coordinates) {
	defer cancel()

	start := time.Now()
	next := m.resolve(ctx, id, loc)
	fetchDuration.Observe(time.Since(start).Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	m.idle.Broadcast()

	if m.closed || gen != m.gen {
		fetchTotal.WithLabelValues(outcomeDiscarded).Inc()
		m.logger.DebugContext(ctx, "discarding stale fetch result",
			slog.String("mystery_box_id", id),
			slog.String("result", next.String()),
		)
		return
	}

	if next.Status == StatusSuccess {
		fetchTotal.WithLabelValues(outcomeSuccess).Inc()
	} else {
		fetchTotal.WithLabelValues(outcomeError).Inc()
		m.logger.WarnContext(ctx, "mystery box detail fetch failed",
			slog.String("mystery_box_id", id),
			slog.String("error", next.Message),
		)
	}
	m.cancel = nil
	m.setLocked(next)
}

// resolve calls the repository and maps the outcome to a terminal state.
func (m *Machine) resolve(ctx context.Context, id string, loc domain.Coordinates) State {
	box, err := m.repo.FetchMysteryBoxDetails(ctx, id, loc)
	if err != nil {
		return Failure(err.Error())
	}
	if box == nil {
		return Failure(fmt.Sprintf("mystery box %s: empty response", id))
	}
	if err := box.Validate(); err != nil {
		return Failure(fmt.Sprintf("mystery box %s: malformed data: %v", id, err))
	}
	return Success(box)
}

// Reset returns the machine to Idle, abandoning any fetch in flight.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.state.Status != StatusIdle {
		m.setLocked(Idle())
	}
}

// Subscribe streams states to the caller: the current state first, then
// every transition in order. Call the returned function to unsubscribe; the
// channel is closed on unsubscribe or Close.
func (m *Machine) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := newSubscription()
	go sub.run()

	if m.closed {
		sub.stop()
		return sub.out, func() {}
	}

	m.nextSub++
	key := m.nextSub
	m.subs[key] = sub
	sub.push(m.state)

	return sub.out, func() {
		m.mu.Lock()
		delete(m.subs, key)
		m.mu.Unlock()
		sub.stop()
	}
}

// Wait blocks until no fetch is in flight. It may be called concurrently
// with RequestFetch and Enter.
func (m *Machine) Wait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.inflight > 0 {
		m.idle.Wait()
	}
}

// Close tears the machine down: the in-flight fetch is cancelled, any result
// it still delivers is dropped, and subscriber channels are closed.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	for key, sub := range m.subs {
		sub.stop()
		delete(m.subs, key)
	}
}

// setLocked records a transition and fans it out. m.mu must be held.
func (m *Machine) setLocked(next State) {
	prev := m.state
	m.state = next
	m.logger.Debug("detail state transition",
		slog.String("from", prev.Status.String()),
		slog.String("to", next.Status.String()),
	)
	for _, sub := range m.subs {
		sub.push(next)
	}
}

// subscription buffers states without bound so a slow reader never blocks
// the machine, while preserving order.
type subscription struct {
	out  chan State
	wake chan struct{}
	done chan struct{}
	once sync.Once

	mu    sync.Mutex
	queue []State
}

func newSubscription() *subscription {
	return &subscription{
		out:  make(chan State),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (s *subscription) push(st State) {
	s.mu.Lock()
	s.queue = append(s.queue, st)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *subscription) run() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
