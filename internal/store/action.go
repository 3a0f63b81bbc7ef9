package store

import (
	"time"

	"callcore/internal/domain"
)

// Action is the closed set of intents the store reduces. Only types declared
// in this package implement it.
type Action interface {
	action()
}

// Call lifecycle.

type CallStartRequested struct{}

type CallEndRequested struct{}

type CallStateUpdated struct {
	Status domain.CallingStatus
}

type CallIDUpdated struct {
	CallID string
}

type CallEndReasonUpdated struct {
	Code    int
	SubCode int
}

type IsRecordingUpdated struct {
	IsRecording bool
}

type IsTranscribingUpdated struct {
	IsTranscribing bool
}

type HoldRequested struct{}

type ResumeRequested struct{}

// Errors.

type FatalErrorOccurred struct {
	Err *domain.CompositeError
}

type CallStateErrorOccurred struct {
	Err *domain.CompositeError
}

type ErrorCleared struct{}

// Navigation.

type NavigationCallLaunched struct{}

type NavigationSetupLaunched struct{}

type NavigationExit struct{}

type ShowSupportForm struct{}

type HideSupportForm struct{}

// Lifecycle.

type EnterBackgroundRequested struct{}

type EnterForegroundRequested struct{}

type EnterBackgroundSucceeded struct{}

type EnterForegroundSucceeded struct{}

// Camera.

type CameraPreviewOnRequested struct{}

type CameraPreviewOnTriggered struct{}

type CameraPreviewOnSucceeded struct {
	StreamID string
}

type CameraPreviewOnFailed struct {
	Err *domain.CompositeError
}

type CameraOnRequested struct{}

type CameraOnTriggered struct{}

type CameraOnSucceeded struct {
	StreamID string
}

type CameraOnFailed struct {
	Err *domain.CompositeError
}

type CameraOffRequested struct{}

type CameraOffTriggered struct{}

type CameraOffSucceeded struct{}

type CameraOffFailed struct {
	Err *domain.CompositeError
}

// CameraPauseTriggered marks a background pause of the call camera as in flight.
type CameraPauseTriggered struct{}

type CameraPausedSucceeded struct{}

type CameraPausedFailed struct {
	Err *domain.CompositeError
}

type CameraSwitchRequested struct{}

type CameraSwitchTriggered struct{}

type CameraSwitchSucceeded struct {
	Device domain.CameraDevice
}

type CameraSwitchFailed struct {
	Previous domain.CameraDevice
	Err      *domain.CompositeError
}

type CameraCountUpdated struct {
	Count int
}

type CameraTransmissionUpdated struct {
	Transmission domain.CameraTransmissionStatus
}

// Microphone and audio routing.

type MicrophoneOnRequested struct{}

type MicrophoneOnTriggered struct{}

type MicrophoneOnSucceeded struct{}

type MicrophoneOnFailed struct {
	Err *domain.CompositeError
}

type MicrophoneOffRequested struct{}

type MicrophoneOffTriggered struct{}

type MicrophoneOffSucceeded struct{}

type MicrophoneOffFailed struct {
	Err *domain.CompositeError
}

// MicrophoneMuteStateUpdated carries the engine's mute flag.
type MicrophoneMuteStateUpdated struct {
	IsMuted bool
}

type AudioDeviceChangeRequested struct {
	Device domain.AudioDevice
}

type AudioDeviceChangeSucceeded struct {
	Device domain.AudioDevice
}

type AudioDeviceChangeFailed struct {
	Err *domain.CompositeError
}

type BluetoothStateUpdated struct {
	State domain.BluetoothState
}

type HeadphonesPluggedUpdated struct {
	Plugged bool
}

type LocalParticipantRoleUpdated struct {
	Role domain.ParticipantRole
}

// Remote participants.

// ParticipantListUpdated replaces the roster. Timestamp is the roster version;
// an update carrying the current version is ignored.
type ParticipantListUpdated struct {
	Participants map[string]domain.ParticipantInfoModel
	Timestamp    time.Time
}

type DominantSpeakersUpdated struct {
	Speakers []string
}

type TotalParticipantCountUpdated struct {
	Count int
}

type LobbyErrorOccurred struct {
	Code domain.LobbyErrorCode
}

type LobbyErrorCleared struct{}

type AdmitAllLobbyParticipants struct{}

type AdmitLobbyParticipant struct {
	UserIdentifier string
}

type DeclineLobbyParticipant struct {
	UserIdentifier string
}

// Permissions.

type CameraPermissionRequested struct{}

type AudioPermissionRequested struct{}

type CameraPermissionUpdated struct {
	Status domain.PermissionStatus
}

type AudioPermissionUpdated struct {
	Status domain.PermissionStatus
}

// Audio session.

type AudioInterrupted struct{}

type AudioInterruptEnded struct{}

type AudioEngaged struct{}

// Picture in picture.

type PipModeRequested struct{}

type PipModeEntered struct{}

type PipModeExited struct{}

// Diagnostics.

type NetworkQualityDiagnosticUpdated struct {
	Kind    domain.DiagnosticKind
	Quality domain.DiagnosticQuality
}

type NetworkDiagnosticUpdated struct {
	Kind  domain.DiagnosticKind
	Value bool
}

type MediaDiagnosticUpdated struct {
	Kind  domain.DiagnosticKind
	Value bool
}

func (CallStartRequested) action()              {}
func (CallEndRequested) action()                {}
func (CallStateUpdated) action()                {}
func (CallIDUpdated) action()                   {}
func (CallEndReasonUpdated) action()            {}
func (IsRecordingUpdated) action()              {}
func (IsTranscribingUpdated) action()           {}
func (HoldRequested) action()                   {}
func (ResumeRequested) action()                 {}
func (FatalErrorOccurred) action()              {}
func (CallStateErrorOccurred) action()          {}
func (ErrorCleared) action()                    {}
func (NavigationCallLaunched) action()          {}
func (NavigationSetupLaunched) action()         {}
func (NavigationExit) action()                  {}
func (ShowSupportForm) action()                 {}
func (HideSupportForm) action()                 {}
func (EnterBackgroundRequested) action()        {}
func (EnterForegroundRequested) action()        {}
func (EnterBackgroundSucceeded) action()        {}
func (EnterForegroundSucceeded) action()        {}
func (CameraPreviewOnRequested) action()        {}
func (CameraPreviewOnTriggered) action()        {}
func (CameraPreviewOnSucceeded) action()        {}
func (CameraPreviewOnFailed) action()           {}
func (CameraOnRequested) action()               {}
func (CameraOnTriggered) action()               {}
func (CameraOnSucceeded) action()               {}
func (CameraOnFailed) action()                  {}
func (CameraOffRequested) action()              {}
func (CameraOffTriggered) action()              {}
func (CameraOffSucceeded) action()              {}
func (CameraOffFailed) action()                 {}
func (CameraPauseTriggered) action()            {}
func (CameraPausedSucceeded) action()           {}
func (CameraPausedFailed) action()              {}
func (CameraSwitchRequested) action()           {}
func (CameraSwitchTriggered) action()           {}
func (CameraSwitchSucceeded) action()           {}
func (CameraSwitchFailed) action()              {}
func (CameraCountUpdated) action()              {}
func (CameraTransmissionUpdated) action()       {}
func (MicrophoneOnRequested) action()           {}
func (MicrophoneOnTriggered) action()           {}
func (MicrophoneOnSucceeded) action()           {}
func (MicrophoneOnFailed) action()              {}
func (MicrophoneOffRequested) action()          {}
func (MicrophoneOffTriggered) action()          {}
func (MicrophoneOffSucceeded) action()          {}
func (MicrophoneOffFailed) action()             {}
func (MicrophoneMuteStateUpdated) action()      {}
func (AudioDeviceChangeRequested) action()      {}
func (AudioDeviceChangeSucceeded) action()      {}
func (AudioDeviceChangeFailed) action()         {}
func (BluetoothStateUpdated) action()           {}
func (HeadphonesPluggedUpdated) action()        {}
func (LocalParticipantRoleUpdated) action()     {}
func (ParticipantListUpdated) action()          {}
func (DominantSpeakersUpdated) action()         {}
func (TotalParticipantCountUpdated) action()    {}
func (LobbyErrorOccurred) action()              {}
func (LobbyErrorCleared) action()               {}
func (AdmitAllLobbyParticipants) action()       {}
func (AdmitLobbyParticipant) action()           {}
func (DeclineLobbyParticipant) action()         {}
func (CameraPermissionRequested) action()       {}
func (AudioPermissionRequested) action()        {}
func (CameraPermissionUpdated) action()         {}
func (AudioPermissionUpdated) action()          {}
func (AudioInterrupted) action()                {}
func (AudioInterruptEnded) action()             {}
func (AudioEngaged) action()                    {}
func (PipModeRequested) action()                {}
func (PipModeEntered) action()                  {}
func (PipModeExited) action()                   {}
func (NetworkQualityDiagnosticUpdated) action() {}
func (NetworkDiagnosticUpdated) action()        {}
func (MediaDiagnosticUpdated) action()          {}
