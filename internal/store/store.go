package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
)

var ErrStoreClosed = errors.New("store is closed")

// Dispatcher accepts actions for reduction.
type Dispatcher interface {
	Dispatch(action Action)
}

// Middleware observes every action together with the state it will be
// reduced against. Implementations must return promptly; I/O belongs on
// goroutines that dispatch their results.
type Middleware interface {
	Handle(action Action, state *State, dispatch Dispatcher)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(action Action, state *State, dispatch Dispatcher)

func (f MiddlewareFunc) Handle(action Action, state *State, dispatch Dispatcher) {
	f(action, state, dispatch)
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(log logr.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithMiddleware(middleware ...Middleware) Option {
	return func(s *Store) { s.middleware = append(s.middleware, middleware...) }
}

// WithReducer replaces the root reducer.
func WithReducer(reducer func(*State, Action) *State) Option {
	return func(s *Store) { s.reducer = reducer }
}

// Store owns the state of one session. Dispatches from any goroutine are
// queued and drained by a single loop, so reduction is serialized and never
// re-entered.
type Store struct {
	log        logr.Logger
	reducer    func(*State, Action) *State
	middleware []Middleware

	state atomic.Pointer[State]

	mu       sync.Mutex
	queue    []Action
	draining bool
	closed   bool

	subsMu sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
}

func New(initial *State, opts ...Option) *Store {
	if initial == nil {
		initial = NewState(InitialState{})
	}
	s := &Store{
		log:     logr.Discard(),
		reducer: Reduce,
		subs:    map[uint64]*subscription{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(initial)
	return s
}

// GetState returns the current snapshot.
func (s *Store) GetState() *State {
	return s.state.Load()
}

// Dispatch queues action and, unless another call is already draining the
// queue, reduces queued actions until it is empty. Actions dispatched after
// Close are dropped.
func (s *Store) Dispatch(action Action) {
	if action == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.V(1).Info("dropping action", "action", actionName(action), "reason", ErrStoreClosed.Error())
		return
	}
	s.queue = append(s.queue, action)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 && !s.closed {
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.process(next)

		s.mu.Lock()
	}
	if s.closed {
		s.queue = nil
	}
	s.draining = false
	s.mu.Unlock()
}

func (s *Store) process(action Action) {
	prev := s.state.Load()
	for _, m := range s.middleware {
		m.Handle(action, prev, s)
	}

	next := s.reducer(prev, action)
	s.log.V(2).Info("reduced", "action", actionName(action), "changed", next != prev)
	if next == prev {
		return
	}
	s.state.Store(next)
	s.publish(next)
}

// Subscribe returns a stream that first yields the current state and then
// every new state in dispatch order. Delivery never drops a state; a slow
// reader only delays itself. The returned func ends the subscription and
// closes the channel.
func (s *Store) Subscribe() (<-chan *State, func()) {
	sub := newSubscription()

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		sub.stop()
		go sub.run()
		return sub.out, func() {}
	}

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	sub.push(s.state.Load())
	s.subsMu.Unlock()

	go sub.run()

	return sub.out, func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
		sub.stop()
	}
}

// Close ends every subscription and makes further dispatches no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := s.subs
	s.subs = map[uint64]*subscription{}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (s *Store) publish(state *State) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.push(state)
	}
}

type subscription struct {
	out    chan *State
	notify chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	pending []*State

	stopOnce sync.Once
}

func newSubscription() *subscription {
	return &subscription{
		out:    make(chan *State),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (sub *subscription) push(state *State) {
	sub.mu.Lock()
	sub.pending = append(sub.pending, state)
	sub.mu.Unlock()

	select {
	case sub.notify <- struct{}{}:
	default:
	}
}

func (sub *subscription) stop() {
	sub.stopOnce.Do(func() { close(sub.done) })
}

func (sub *subscription) run() {
	defer close(sub.out)

	for {
		sub.mu.Lock()
		batch := sub.pending
		sub.pending = nil
		sub.mu.Unlock()

		for _, state := range batch {
			select {
			case sub.out <- state:
			case <-sub.done:
				return
			}
		}

		select {
		case <-sub.notify:
		case <-sub.done:
			return
		}
	}
}

func actionName(action Action) string {
	return fmt.Sprintf("%T", action)
}
