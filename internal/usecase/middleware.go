package usecase

import "callcore/internal/store"

// NewCallingMiddleware routes request actions to h. It sees the state before
// the request is reduced, so a request arriving while an operation is pending
// is dropped by the handler.
func NewCallingMiddleware(h *CallingHandler) store.Middleware {
	return store.MiddlewareFunc(func(action store.Action, state *store.State, dispatch store.Dispatcher) {
		switch act := action.(type) {
		case store.CallStartRequested:
			h.StartCall(state, dispatch)
		case store.CallEndRequested:
			h.EndCall(dispatch)
		case store.HoldRequested:
			h.Hold(dispatch)
		case store.ResumeRequested:
			h.Resume(dispatch)
		case store.AudioInterrupted:
			h.AudioInterrupted(state, dispatch)

		case store.CameraPreviewOnRequested:
			h.RequestCameraPreviewOn(state, dispatch)
		case store.CameraOnRequested:
			h.RequestCameraOn(state, dispatch)
		case store.CameraOffRequested:
			h.RequestCameraOff(state, dispatch)
		case store.CameraSwitchRequested:
			h.RequestCameraSwitch(state, dispatch)

		case store.MicrophoneOnRequested:
			h.RequestMicrophoneOn(state, dispatch)
		case store.MicrophoneOffRequested:
			h.RequestMicrophoneOff(state, dispatch)
		case store.AudioDeviceChangeRequested:
			h.RequestAudioDeviceChange(state, act.Device, dispatch)

		case store.EnterBackgroundRequested:
			h.EnterBackground(state, dispatch)
		case store.EnterForegroundRequested:
			h.EnterForeground(state, dispatch)

		case store.AdmitAllLobbyParticipants:
			h.AdmitAll(dispatch)
		case store.AdmitLobbyParticipant:
			h.Admit(act.UserIdentifier, dispatch)
		case store.DeclineLobbyParticipant:
			h.Decline(act.UserIdentifier, dispatch)
		}
	})
}
