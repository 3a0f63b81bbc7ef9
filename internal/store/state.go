package store

import (
	"time"

	"callcore/internal/domain"
)

// State is the aggregate root. Every field points at an immutable slice; a
// reducer that does not change a slice returns the same pointer, so slice
// changes can be detected by comparing pointers.
type State struct {
	Call               *CallState
	LocalUser          *LocalUserState
	RemoteParticipants *RemoteParticipantsState
	Navigation         *NavigationState
	Permission         *PermissionState
	Lifecycle          *LifecycleState
	Error              *ErrorState
	AudioSession       *AudioSessionState
	PictureInPicture   *PictureInPictureState
	Diagnostics        *DiagnosticsState
}

type CallState struct {
	Status           domain.CallingStatus `json:"status"`
	CallID           string               `json:"callId"`
	EndReasonCode    int                  `json:"endReasonCode"`
	EndReasonSubCode int                  `json:"endReasonSubCode"`
	IsRecording      bool                 `json:"isRecording"`
	IsTranscribing   bool                 `json:"isTranscribing"`
}

type CameraState struct {
	Operation    domain.CameraOperationalStatus  `json:"operation"`
	Device       domain.CameraDevice             `json:"device"`
	Transmission domain.CameraTransmissionStatus `json:"transmission"`
	CamerasCount int                             `json:"camerasCount"`
	Error        *domain.CompositeError          `json:"error,omitempty"`
}

type AudioState struct {
	Operation          domain.AudioOperationalStatus     `json:"operation"`
	Device             domain.AudioDeviceSelectionStatus `json:"device"`
	BluetoothState     domain.BluetoothState             `json:"bluetoothState"`
	IsHeadphonePlugged bool                              `json:"isHeadphonePlugged"`
	Error              *domain.CompositeError            `json:"error,omitempty"`
}

// LocalUserState holds the local participant. VideoStreamID is set only while
// Camera.Operation is On.
type LocalUserState struct {
	Camera        CameraState            `json:"camera"`
	Audio         AudioState             `json:"audio"`
	DisplayName   string                 `json:"displayName"`
	VideoStreamID string                 `json:"videoStreamId,omitempty"`
	Role          domain.ParticipantRole `json:"role"`
}

type RemoteParticipantsState struct {
	ParticipantMap        map[string]domain.ParticipantInfoModel `json:"participantMap"`
	LastUpdateTimestamp   time.Time                              `json:"lastUpdateTimestamp"`
	DominantSpeakers      []string                               `json:"dominantSpeakers"`
	TotalParticipantCount int                                    `json:"totalParticipantCount"`
	LobbyErrorCode        domain.LobbyErrorCode                  `json:"lobbyErrorCode,omitempty"`
}

type NavigationState struct {
	Status             domain.NavigationStatus `json:"status"`
	SupportFormVisible bool                    `json:"supportFormVisible"`
}

type PermissionState struct {
	Camera domain.PermissionStatus `json:"camera"`
	Audio  domain.PermissionStatus `json:"audio"`
}

type LifecycleState struct {
	Status domain.AppStatus `json:"status"`
}

type ErrorState struct {
	Fatal     *domain.CompositeError `json:"fatal,omitempty"`
	CallState *domain.CompositeError `json:"callState,omitempty"`
}

type AudioSessionState struct {
	Status domain.AudioSessionStatus `json:"status"`
}

type PictureInPictureState struct {
	Status domain.PictureInPictureStatus `json:"status"`
}

type DiagnosticsState struct {
	NetworkQuality map[domain.DiagnosticKind]domain.DiagnosticQuality `json:"networkQuality"`
	Network        map[domain.DiagnosticKind]bool                     `json:"network"`
	Media          map[domain.DiagnosticKind]bool                     `json:"media"`
}

// InitialState describes a fresh session before setup.
type InitialState struct {
	DisplayName      string
	CameraPermission domain.PermissionStatus
	AudioPermission  domain.PermissionStatus
	Role             domain.ParticipantRole
}

// NewState builds the starting state tree.
func NewState(init InitialState) *State {
	if init.CameraPermission == "" {
		init.CameraPermission = domain.PermissionStatusUnknown
	}
	if init.AudioPermission == "" {
		init.AudioPermission = domain.PermissionStatusUnknown
	}
	if init.Role == "" {
		init.Role = domain.ParticipantRoleUnknown
	}

	return &State{
		Call: &CallState{Status: domain.CallingStatusNone},
		LocalUser: &LocalUserState{
			Camera: CameraState{
				Operation:    domain.CameraOperationOff,
				Device:       domain.CameraDeviceFront,
				Transmission: domain.CameraTransmissionLocal,
			},
			Audio: AudioState{
				Operation: domain.AudioOperationOff,
				Device:    domain.AudioDeviceSelectionStatus{Selected: domain.AudioDeviceReceiver},
			},
			DisplayName: init.DisplayName,
			Role:        init.Role,
		},
		RemoteParticipants: &RemoteParticipantsState{
			ParticipantMap: map[string]domain.ParticipantInfoModel{},
		},
		Navigation:       &NavigationState{Status: domain.NavigationStatusSetup},
		Permission:       &PermissionState{Camera: init.CameraPermission, Audio: init.AudioPermission},
		Lifecycle:        &LifecycleState{Status: domain.AppStatusForeground},
		Error:            &ErrorState{},
		AudioSession:     &AudioSessionState{Status: domain.AudioSessionStatusActive},
		PictureInPicture: &PictureInPictureState{Status: domain.PictureInPictureNone},
		Diagnostics: &DiagnosticsState{
			NetworkQuality: map[domain.DiagnosticKind]domain.DiagnosticQuality{},
			Network:        map[domain.DiagnosticKind]bool{},
			Media:          map[domain.DiagnosticKind]bool{},
		},
	}
}
