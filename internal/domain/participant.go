package domain

import "time"

// ParticipantStatus is the remote participant's state in the call.
type ParticipantStatus string

const (
	ParticipantStatusIdle          ParticipantStatus = "idle"
	ParticipantStatusConnecting    ParticipantStatus = "connecting"
	ParticipantStatusRinging       ParticipantStatus = "ringing"
	ParticipantStatusConnected     ParticipantStatus = "connected"
	ParticipantStatusHold          ParticipantStatus = "hold"
	ParticipantStatusInLobby       ParticipantStatus = "in_lobby"
	ParticipantStatusDisconnected  ParticipantStatus = "disconnected"
	ParticipantStatusEarlyMedia    ParticipantStatus = "early_media"
	ParticipantStatusDisconnecting ParticipantStatus = "disconnecting"
)

// VideoStreamInfo describes a remote video stream.
type VideoStreamInfo struct {
	StreamID  string `json:"streamId"`
	MediaType string `json:"mediaType"`
}

// ParticipantInfoModel is one remote participant as seen by the composite.
// UserIdentifier is the identity key.
type ParticipantInfoModel struct {
	DisplayName            string            `json:"displayName"`
	UserIdentifier         string            `json:"userIdentifier"`
	IsMuted                bool              `json:"isMuted"`
	IsSpeaking             bool              `json:"isSpeaking"`
	Status                 ParticipantStatus `json:"status"`
	CameraVideoStream      *VideoStreamInfo  `json:"cameraVideoStream,omitempty"`
	ScreenShareVideoStream *VideoStreamInfo  `json:"screenShareVideoStream,omitempty"`
	ModifiedTimestamp      time.Time         `json:"modifiedTimestamp"`
	SpeakingTimestamp      time.Time         `json:"speakingTimestamp"`
}

// IsScreenSharing reports whether the participant has an active screen share.
func (p ParticipantInfoModel) IsScreenSharing() bool {
	return p.ScreenShareVideoStream != nil && p.ScreenShareVideoStream.StreamID != ""
}

// ParticipantsUpdate is one emission of the engine's roster stream.
type ParticipantsUpdate struct {
	Participants []ParticipantInfoModel `json:"participants"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// ParticipantViewData is host-supplied presentation data for a participant.
type ParticipantViewData struct {
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// DiagnosticKind names a call quality diagnostic.
type DiagnosticKind string

const (
	DiagnosticNetworkReceiveQuality   DiagnosticKind = "network_receive_quality"
	DiagnosticNetworkSendQuality      DiagnosticKind = "network_send_quality"
	DiagnosticNetworkReconnectQuality DiagnosticKind = "network_reconnect_quality"
	DiagnosticNetworkUnavailable      DiagnosticKind = "network_unavailable"
	DiagnosticNetworkRelaysUnreached  DiagnosticKind = "network_relays_unreachable"
	DiagnosticSpeakingWhileMuted      DiagnosticKind = "speaking_while_microphone_muted"
	DiagnosticCameraStartFailed       DiagnosticKind = "camera_start_failed"
	DiagnosticCameraFrozen            DiagnosticKind = "camera_frozen"
	DiagnosticNoSpeakerDevices        DiagnosticKind = "no_speaker_devices_available"
	DiagnosticNoMicrophoneDevices     DiagnosticKind = "no_microphone_devices_available"
)

// DiagnosticQuality is the value of a quality diagnostic.
type DiagnosticQuality string

const (
	DiagnosticQualityUnknown DiagnosticQuality = "unknown"
	DiagnosticQualityGood    DiagnosticQuality = "good"
	DiagnosticQualityPoor    DiagnosticQuality = "poor"
	DiagnosticQualityBad     DiagnosticQuality = "bad"
)

// DiagnosticCategory groups diagnostics for routing into state.
type DiagnosticCategory string

const (
	DiagnosticCategoryNetworkQuality DiagnosticCategory = "network_quality"
	DiagnosticCategoryNetwork        DiagnosticCategory = "network"
	DiagnosticCategoryMedia          DiagnosticCategory = "media"
)

// Diagnostic is one emission of the engine's diagnostics stream. Quality
// diagnostics carry Quality; flag diagnostics carry Value.
type Diagnostic struct {
	Category DiagnosticCategory `json:"category"`
	Kind     DiagnosticKind     `json:"kind"`
	Quality  DiagnosticQuality  `json:"quality,omitempty"`
	Value    bool               `json:"value"`
}
