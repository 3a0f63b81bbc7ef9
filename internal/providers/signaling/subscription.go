package signaling

import (
	"context"
	"sync"

	"callcore/internal/domain"
	"callcore/internal/ports"
)

const streamBuffer = 64

// stream is one notification channel. Sends block until the consumer reads
// or the subscription ends, so notifications are never dropped while the
// subscription is live.
type stream[T any] struct {
	mu     sync.RWMutex
	ch     chan T
	closed bool
}

func newStream[T any]() *stream[T] {
	return &stream[T]{ch: make(chan T, streamBuffer)}
}

func (s *stream[T]) send(ctx context.Context, value T) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- value:
	case <-ctx.Done():
	}
}

func (s *stream[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

type subscription struct {
	ctx    context.Context
	cancel context.CancelFunc

	callInfo     *stream[domain.CallInfo]
	participants *stream[domain.ParticipantsUpdate]
	callID       *stream[string]
	muted        *stream[bool]
	recording    *stream[bool]
	transcribing *stream[bool]
	speakers     *stream[[]string]
	totalCount   *stream[int]
	diagnostics  *stream[domain.Diagnostic]
	role         *stream[domain.ParticipantRole]
	camerasCount *stream[int]
	transmission *stream[domain.CameraTransmissionStatus]
}

func newSubscription(parent context.Context) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{
		ctx:          ctx,
		cancel:       cancel,
		callInfo:     newStream[domain.CallInfo](),
		participants: newStream[domain.ParticipantsUpdate](),
		callID:       newStream[string](),
		muted:        newStream[bool](),
		recording:    newStream[bool](),
		transcribing: newStream[bool](),
		speakers:     newStream[[]string](),
		totalCount:   newStream[int](),
		diagnostics:  newStream[domain.Diagnostic](),
		role:         newStream[domain.ParticipantRole](),
		camerasCount: newStream[int](),
		transmission: newStream[domain.CameraTransmissionStatus](),
	}
}

func (s *subscription) updates() ports.CallUpdates {
	return ports.CallUpdates{
		Participants:     s.participants.ch,
		CallInfo:         s.callInfo.ch,
		CallID:           s.callID.ch,
		IsMuted:          s.muted.ch,
		IsRecording:      s.recording.ch,
		IsTranscribing:   s.transcribing.ch,
		DominantSpeakers: s.speakers.ch,
		TotalCount:       s.totalCount.ch,
		Diagnostics:      s.diagnostics.ch,
		Role:             s.role.ch,
		CamerasCount:     s.camerasCount.ch,
		Transmission:     s.transmission.ch,
	}
}

// close must run after ctx is cancelled so blocked senders release their
// read locks.
func (s *subscription) close() {
	s.cancel()
	s.callInfo.close()
	s.participants.close()
	s.callID.close()
	s.muted.close()
	s.recording.close()
	s.transcribing.close()
	s.speakers.close()
	s.totalCount.close()
	s.diagnostics.close()
	s.role.close()
	s.camerasCount.close()
	s.transmission.close()
}
