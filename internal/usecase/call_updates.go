package usecase

import (
	"context"
	"sync"

	"callcore/internal/domain"
	"callcore/internal/ports"
	"callcore/internal/store"
)

type activeCall struct {
	generation uint64
	cancel     func()
}

// consumeUpdates forwards each engine stream into actions, one goroutine per
// stream, until ctx ends. Ordering across streams is not defined.
func (h *CallingHandler) consumeUpdates(ctx context.Context, call *activeCall, updates ports.CallUpdates, dispatch store.Dispatcher) {
	var wg sync.WaitGroup
	machine := &callStatusMachine{}

	forward(ctx, &wg, updates.CallInfo, func(info domain.CallInfo) {
		actions, ended := machine.next(info)
		for _, action := range actions {
			dispatch.Dispatch(action)
		}
		if ended {
			h.log.Info("call ended, stopping update streams", "generation", call.generation, "status", info.Status)
			h.endCall(call)
		}
	})
	forward(ctx, &wg, updates.Participants, func(update domain.ParticipantsUpdate) {
		dispatch.Dispatch(h.participantListAction(update))
	})
	forward(ctx, &wg, updates.CallID, func(id string) {
		dispatch.Dispatch(store.CallIDUpdated{CallID: id})
	})
	forward(ctx, &wg, updates.IsMuted, func(muted bool) {
		dispatch.Dispatch(store.MicrophoneMuteStateUpdated{IsMuted: muted})
	})
	forward(ctx, &wg, updates.IsRecording, func(recording bool) {
		dispatch.Dispatch(store.IsRecordingUpdated{IsRecording: recording})
	})
	forward(ctx, &wg, updates.IsTranscribing, func(transcribing bool) {
		dispatch.Dispatch(store.IsTranscribingUpdated{IsTranscribing: transcribing})
	})
	forward(ctx, &wg, updates.DominantSpeakers, func(speakers []string) {
		dispatch.Dispatch(store.DominantSpeakersUpdated{Speakers: speakers})
	})
	forward(ctx, &wg, updates.TotalCount, func(count int) {
		dispatch.Dispatch(store.TotalParticipantCountUpdated{Count: count})
	})
	forward(ctx, &wg, updates.Role, func(role domain.ParticipantRole) {
		dispatch.Dispatch(store.LocalParticipantRoleUpdated{Role: role})
	})
	forward(ctx, &wg, updates.CamerasCount, func(count int) {
		dispatch.Dispatch(store.CameraCountUpdated{Count: count})
	})
	forward(ctx, &wg, updates.Transmission, func(transmission domain.CameraTransmissionStatus) {
		dispatch.Dispatch(store.CameraTransmissionUpdated{Transmission: transmission})
	})
	forward(ctx, &wg, updates.Diagnostics, func(d domain.Diagnostic) {
		if action := diagnosticAction(d); action != nil {
			dispatch.Dispatch(action)
		}
	})

	wg.Wait()
}

func forward[T any](ctx context.Context, wg *sync.WaitGroup, ch <-chan T, handle func(T)) {
	if ch == nil {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-ch:
				if !ok || ctx.Err() != nil {
					return
				}
				handle(value)
			}
		}
	}()
}

func (h *CallingHandler) participantListAction(update domain.ParticipantsUpdate) store.ParticipantListUpdated {
	participants := make(map[string]domain.ParticipantInfoModel, len(update.Participants))
	for _, p := range update.Participants {
		if p.UserIdentifier == "" {
			continue
		}
		participants[p.UserIdentifier] = p
	}
	timestamp := update.UpdatedAt
	if timestamp.IsZero() {
		timestamp = h.cfg.Now()
	}
	return store.ParticipantListUpdated{Participants: participants, Timestamp: timestamp}
}

func diagnosticAction(d domain.Diagnostic) store.Action {
	switch d.Category {
	case domain.DiagnosticCategoryNetworkQuality:
		return store.NetworkQualityDiagnosticUpdated{Kind: d.Kind, Quality: d.Quality}
	case domain.DiagnosticCategoryNetwork:
		return store.NetworkDiagnosticUpdated{Kind: d.Kind, Value: d.Value}
	case domain.DiagnosticCategoryMedia:
		return store.MediaDiagnosticUpdated{Kind: d.Kind, Value: d.Value}
	default:
		return nil
	}
}

// callStatusMachine turns call-info emissions into actions. It suppresses
// repeated statuses and decides between exiting, returning to setup, and
// only reporting an error.
type callStatusMachine struct {
	last domain.CallingStatus
	seen bool
}

// next returns the actions for info and whether the call is over.
func (m *callStatusMachine) next(info domain.CallInfo) ([]store.Action, bool) {
	if info.Err == nil && m.seen && info.Status == m.last {
		return nil, false
	}
	m.seen = true
	m.last = info.Status

	var actions []store.Action
	if info.EndReasonCode != 0 || info.EndReasonSubCode != 0 {
		actions = append(actions, store.CallEndReasonUpdated{Code: info.EndReasonCode, SubCode: info.EndReasonSubCode})
	}

	status := info.Status
	ended := status == domain.CallingStatusDisconnected

	switch {
	case info.Err != nil && info.Err.Code.EndsCall() &&
		(status == domain.CallingStatusNone || status == domain.CallingStatusDisconnected):
		actions = append(actions,
			store.IsTranscribingUpdated{IsTranscribing: false},
			store.IsRecordingUpdated{IsRecording: false},
			store.CallStateErrorOccurred{Err: info.Err},
			store.CallStateUpdated{Status: domain.CallingStatusNone},
			store.NavigationSetupLaunched{},
		)
		ended = true
	case info.Err != nil && status == domain.CallingStatusDisconnected:
		// Navigation is left to whoever handles the error.
		actions = append(actions, store.CallStateErrorOccurred{Err: info.Err})
	case status == domain.CallingStatusDisconnected:
		actions = append(actions,
			store.CallStateUpdated{Status: domain.CallingStatusNone},
			store.CallStateUpdated{Status: domain.CallingStatusDisconnected},
			store.NavigationExit{},
		)
	default:
		actions = append(actions, store.CallStateUpdated{Status: status})
		if info.Err != nil {
			actions = append(actions, store.CallStateErrorOccurred{Err: info.Err})
		}
	}
	return actions, ended
}
