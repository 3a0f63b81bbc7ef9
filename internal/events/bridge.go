package events

import (
	"context"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"callcore/internal/domain"
	"callcore/internal/store"
)

// CallStateChange is the payload delivered to call state handlers.
type CallStateChange struct {
	Code             domain.CallingStatus `json:"code"`
	CallID           string               `json:"callId,omitempty"`
	EndReasonCode    int                  `json:"endReasonCode"`
	EndReasonSubCode int                  `json:"endReasonSubCode"`
}

// ViewDataRemover drops cached presentation data for participants that left.
type ViewDataRemover interface {
	Remove(userIdentifiers ...string)
}

// Bridge turns the store's state stream into host callbacks. It is the only
// place that remembers which participants were present, so join and left
// events are derived here rather than in reducers.
type Bridge struct {
	log      logr.Logger
	viewData ViewDataRemover

	mu           sync.Mutex
	callHandlers map[string]func(CallStateChange)
	joinHandlers map[string]func([]string)
	leftHandlers map[string]func([]string)

	// Touched only by Observe, which runs on one goroutine.
	observed   bool
	lastStatus domain.CallingStatus
	roster     *store.RemoteParticipantsState
	present    map[string]struct{}
}

func NewBridge(log logr.Logger, viewData ViewDataRemover) *Bridge {
	return &Bridge{
		log:          log,
		viewData:     viewData,
		callHandlers: map[string]func(CallStateChange){},
		joinHandlers: map[string]func([]string){},
		leftHandlers: map[string]func([]string){},
		present:      map[string]struct{}{},
	}
}

// OnCallStateChanged registers fn and returns a func that unregisters it.
func (b *Bridge) OnCallStateChanged(fn func(CallStateChange)) func() {
	return register(b, b.callHandlers, fn)
}

// OnRemoteParticipantJoined registers fn for the identifiers of newly present
// participants.
func (b *Bridge) OnRemoteParticipantJoined(fn func([]string)) func() {
	return register(b, b.joinHandlers, fn)
}

// OnRemoteParticipantLeft registers fn for the identifiers of participants no
// longer present.
func (b *Bridge) OnRemoteParticipantLeft(fn func([]string)) func() {
	return register(b, b.leftHandlers, fn)
}

func register[F any](b *Bridge, handlers map[string]F, fn F) func() {
	id := uuid.NewString()
	b.mu.Lock()
	handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(handlers, id)
			b.mu.Unlock()
		})
	}
}

// Run observes states until the channel closes or ctx ends.
func (b *Bridge) Run(ctx context.Context, states <-chan *store.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			b.Observe(state)
		}
	}
}

// Observe compares state with the previously observed one and notifies
// handlers. The first observed call status is a baseline and is not reported.
func (b *Bridge) Observe(state *store.State) {
	if state == nil {
		return
	}

	call := state.Call
	if b.observed && call.Status != b.lastStatus {
		change := CallStateChange{
			Code:             call.Status,
			CallID:           call.CallID,
			EndReasonCode:    call.EndReasonCode,
			EndReasonSubCode: call.EndReasonSubCode,
		}
		b.log.V(1).Info("call state changed", "from", b.lastStatus, "to", call.Status)
		for _, fn := range snapshot(b, b.callHandlers) {
			fn(change)
		}
	}
	b.observed = true
	b.lastStatus = call.Status

	if state.RemoteParticipants == b.roster {
		return
	}
	b.roster = state.RemoteParticipants
	b.diffRoster(state.RemoteParticipants.ParticipantMap)
}

func (b *Bridge) diffRoster(current map[string]domain.ParticipantInfoModel) {
	var joined, left []string
	for id := range current {
		if _, ok := b.present[id]; !ok {
			joined = append(joined, id)
		}
	}
	for id := range b.present {
		if _, ok := current[id]; !ok {
			left = append(left, id)
		}
	}
	if len(joined) == 0 && len(left) == 0 {
		return
	}

	next := make(map[string]struct{}, len(current))
	for id := range current {
		next[id] = struct{}{}
	}
	b.present = next

	slices.Sort(joined)
	slices.Sort(left)

	if len(joined) > 0 {
		b.log.V(1).Info("participants joined", "count", len(joined))
		for _, fn := range snapshot(b, b.joinHandlers) {
			fn(slices.Clone(joined))
		}
	}
	if len(left) > 0 {
		b.log.V(1).Info("participants left", "count", len(left))
		if b.viewData != nil {
			b.viewData.Remove(left...)
		}
		for _, fn := range snapshot(b, b.leftHandlers) {
			fn(slices.Clone(left))
		}
	}
}

func snapshot[F any](b *Bridge, handlers map[string]F) []F {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]F, 0, len(handlers))
	for _, fn := range handlers {
		out = append(out, fn)
	}
	return out
}
