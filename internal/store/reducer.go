package store

import "callcore/internal/domain"

// Reduce is the root reducer. Each slice reducer sees every action and returns
// its input pointer when the action does not concern it; the root returns s
// itself when no slice changed.
func Reduce(s *State, a Action) *State {
	next := State{
		Call:               reduceCall(s.Call, a),
		LocalUser:          reduceLocalUser(s.LocalUser, a),
		RemoteParticipants: reduceRemoteParticipants(s.RemoteParticipants, a),
		Navigation:         reduceNavigation(s.Navigation, a),
		Permission:         reducePermission(s.Permission, a),
		Lifecycle:          reduceLifecycle(s.Lifecycle, a),
		Error:              reduceError(s.Error, a),
		AudioSession:       reduceAudioSession(s.AudioSession, a),
		PictureInPicture:   reducePictureInPicture(s.PictureInPicture, a),
		Diagnostics:        reduceDiagnostics(s.Diagnostics, a),
	}
	if next == *s {
		return s
	}
	return &next
}

func reduceCall(s *CallState, a Action) *CallState {
	switch act := a.(type) {
	case CallStateUpdated:
		if !act.Status.Valid() || act.Status == s.Status {
			return s
		}
		// A disconnected call only restarts through None.
		if s.Status == domain.CallingStatusDisconnected && act.Status != domain.CallingStatusNone {
			return s
		}
		next := *s
		next.Status = act.Status
		return &next
	case CallIDUpdated:
		if act.CallID == s.CallID {
			return s
		}
		next := *s
		next.CallID = act.CallID
		return &next
	case CallEndReasonUpdated:
		if act.Code == s.EndReasonCode && act.SubCode == s.EndReasonSubCode {
			return s
		}
		next := *s
		next.EndReasonCode = act.Code
		next.EndReasonSubCode = act.SubCode
		return &next
	case IsRecordingUpdated:
		if act.IsRecording == s.IsRecording {
			return s
		}
		next := *s
		next.IsRecording = act.IsRecording
		return &next
	case IsTranscribingUpdated:
		if act.IsTranscribing == s.IsTranscribing {
			return s
		}
		next := *s
		next.IsTranscribing = act.IsTranscribing
		return &next
	default:
		return s
	}
}

func reduceNavigation(s *NavigationState, a Action) *NavigationState {
	status := s.Status
	visible := s.SupportFormVisible

	switch a.(type) {
	case NavigationCallLaunched:
		if status != domain.NavigationStatusExit {
			status = domain.NavigationStatusInCall
		}
	case NavigationSetupLaunched:
		if status != domain.NavigationStatusExit {
			status = domain.NavigationStatusSetup
		}
	case NavigationExit:
		status = domain.NavigationStatusExit
	case ShowSupportForm:
		visible = true
	case HideSupportForm:
		visible = false
	default:
		return s
	}

	if status == s.Status && visible == s.SupportFormVisible {
		return s
	}
	return &NavigationState{Status: status, SupportFormVisible: visible}
}

func reduceLifecycle(s *LifecycleState, a Action) *LifecycleState {
	var status domain.AppStatus
	switch a.(type) {
	case EnterBackgroundSucceeded:
		status = domain.AppStatusBackground
	case EnterForegroundSucceeded:
		status = domain.AppStatusForeground
	default:
		return s
	}
	if status == s.Status {
		return s
	}
	return &LifecycleState{Status: status}
}

func reduceError(s *ErrorState, a Action) *ErrorState {
	switch act := a.(type) {
	case FatalErrorOccurred:
		if act.Err == nil || act.Err == s.Fatal {
			return s
		}
		next := *s
		next.Fatal = act.Err
		return &next
	case CallStateErrorOccurred:
		if act.Err == nil || act.Err == s.CallState {
			return s
		}
		next := *s
		next.CallState = act.Err
		return &next
	case CallStartRequested:
		if s.CallState == nil {
			return s
		}
		next := *s
		next.CallState = nil
		return &next
	case ErrorCleared:
		if s.Fatal == nil && s.CallState == nil {
			return s
		}
		return &ErrorState{}
	default:
		return s
	}
}
