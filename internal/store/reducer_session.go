package store

import (
	"maps"

	"callcore/internal/domain"
)

func reducePermission(s *PermissionState, a Action) *PermissionState {
	next := *s
	switch act := a.(type) {
	case CameraPermissionRequested:
		next.Camera = domain.PermissionStatusRequesting
	case AudioPermissionRequested:
		next.Audio = domain.PermissionStatusRequesting
	case CameraPermissionUpdated:
		next.Camera = act.Status
	case AudioPermissionUpdated:
		next.Audio = act.Status
	default:
		return s
	}
	if next == *s {
		return s
	}
	return &next
}

func reduceAudioSession(s *AudioSessionState, a Action) *AudioSessionState {
	var status domain.AudioSessionStatus
	switch a.(type) {
	case AudioInterrupted:
		status = domain.AudioSessionStatusInterrupted
	case AudioInterruptEnded, AudioEngaged:
		status = domain.AudioSessionStatusActive
	default:
		return s
	}
	if status == s.Status {
		return s
	}
	return &AudioSessionState{Status: status}
}

func reducePictureInPicture(s *PictureInPictureState, a Action) *PictureInPictureState {
	var status domain.PictureInPictureStatus
	switch a.(type) {
	case PipModeRequested:
		status = domain.PictureInPictureRequested
	case PipModeEntered:
		status = domain.PictureInPictureOn
	case PipModeExited:
		status = domain.PictureInPictureOff
	default:
		return s
	}
	if status == s.Status {
		return s
	}
	return &PictureInPictureState{Status: status}
}

func reduceDiagnostics(s *DiagnosticsState, a Action) *DiagnosticsState {
	switch act := a.(type) {
	case NetworkQualityDiagnosticUpdated:
		if current, ok := s.NetworkQuality[act.Kind]; ok && current == act.Quality {
			return s
		}
		next := *s
		next.NetworkQuality = maps.Clone(s.NetworkQuality)
		if next.NetworkQuality == nil {
			next.NetworkQuality = map[domain.DiagnosticKind]domain.DiagnosticQuality{}
		}
		next.NetworkQuality[act.Kind] = act.Quality
		return &next
	case NetworkDiagnosticUpdated:
		flags, changed := withFlag(s.Network, act.Kind, act.Value)
		if !changed {
			return s
		}
		next := *s
		next.Network = flags
		return &next
	case MediaDiagnosticUpdated:
		flags, changed := withFlag(s.Media, act.Kind, act.Value)
		if !changed {
			return s
		}
		next := *s
		next.Media = flags
		return &next
	default:
		return s
	}
}

func withFlag(flags map[domain.DiagnosticKind]bool, kind domain.DiagnosticKind, value bool) (map[domain.DiagnosticKind]bool, bool) {
	if current, ok := flags[kind]; ok && current == value {
		return flags, false
	}
	out := maps.Clone(flags)
	if out == nil {
		out = map[domain.DiagnosticKind]bool{}
	}
	out[kind] = value
	return out, true
}
