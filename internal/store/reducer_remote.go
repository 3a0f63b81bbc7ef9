package store

import (
	"maps"
	"slices"

	"callcore/internal/domain"
)

func reduceRemoteParticipants(s *RemoteParticipantsState, a Action) *RemoteParticipantsState {
	switch act := a.(type) {
	case ParticipantListUpdated:
		// An update carrying the current version is a no-op.
		if act.Timestamp.Equal(s.LastUpdateTimestamp) {
			return s
		}
		next := *s
		next.ParticipantMap = maps.Clone(act.Participants)
		if next.ParticipantMap == nil {
			next.ParticipantMap = map[string]domain.ParticipantInfoModel{}
		}
		next.LastUpdateTimestamp = act.Timestamp
		return &next
	case DominantSpeakersUpdated:
		if slices.Equal(act.Speakers, s.DominantSpeakers) {
			return s
		}
		next := *s
		next.DominantSpeakers = slices.Clone(act.Speakers)
		return &next
	case TotalParticipantCountUpdated:
		if act.Count == s.TotalParticipantCount {
			return s
		}
		next := *s
		next.TotalParticipantCount = act.Count
		return &next
	case LobbyErrorOccurred:
		if act.Code == s.LobbyErrorCode {
			return s
		}
		next := *s
		next.LobbyErrorCode = act.Code
		return &next
	case LobbyErrorCleared:
		if s.LobbyErrorCode == "" {
			return s
		}
		next := *s
		next.LobbyErrorCode = ""
		return &next
	default:
		return s
	}
}
