package domain

// CallingStatus models the call lifecycle reported by the calling engine.
type CallingStatus string

const (
	CallingStatusNone          CallingStatus = "none"
	CallingStatusConnecting    CallingStatus = "connecting"
	CallingStatusRinging       CallingStatus = "ringing"
	CallingStatusEarlyMedia    CallingStatus = "early_media"
	CallingStatusInLobby       CallingStatus = "in_lobby"
	CallingStatusConnected     CallingStatus = "connected"
	CallingStatusLocalHold     CallingStatus = "local_hold"
	CallingStatusRemoteHold    CallingStatus = "remote_hold"
	CallingStatusDisconnecting CallingStatus = "disconnecting"
	CallingStatusDisconnected  CallingStatus = "disconnected"
)

// IsActive reports whether a call session exists for the status. Disconnected
// counts as ended.
func (s CallingStatus) IsActive() bool {
	switch s {
	case CallingStatusNone, CallingStatusDisconnected, "":
		return false
	default:
		return true
	}
}

// Valid reports whether s is one of the defined statuses.
func (s CallingStatus) Valid() bool {
	switch s {
	case CallingStatusNone, CallingStatusConnecting, CallingStatusRinging,
		CallingStatusEarlyMedia, CallingStatusInLobby, CallingStatusConnected,
		CallingStatusLocalHold, CallingStatusRemoteHold, CallingStatusDisconnecting,
		CallingStatusDisconnected:
		return true
	default:
		return false
	}
}

// CameraOperationalStatus is the operation state of the local camera.
type CameraOperationalStatus string

const (
	CameraOperationOff     CameraOperationalStatus = "off"
	CameraOperationPending CameraOperationalStatus = "pending"
	CameraOperationOn      CameraOperationalStatus = "on"
	CameraOperationPaused  CameraOperationalStatus = "paused"
)

// CameraDevice identifies the active camera.
type CameraDevice string

const (
	CameraDeviceFront     CameraDevice = "front"
	CameraDeviceBack      CameraDevice = "back"
	CameraDeviceSwitching CameraDevice = "switching"
)

// CameraTransmissionStatus tells whether the local video is only previewed or
// also sent to remote participants.
type CameraTransmissionStatus string

const (
	CameraTransmissionLocal  CameraTransmissionStatus = "local"
	CameraTransmissionRemote CameraTransmissionStatus = "remote"
)

// AudioOperationalStatus is the operation state of the microphone.
type AudioOperationalStatus string

const (
	AudioOperationOff     AudioOperationalStatus = "off"
	AudioOperationPending AudioOperationalStatus = "pending"
	AudioOperationOn      AudioOperationalStatus = "on"
)

// AudioDevice is an audio output route.
type AudioDevice string

const (
	AudioDeviceReceiver   AudioDevice = "receiver"
	AudioDeviceSpeaker    AudioDevice = "speaker"
	AudioDeviceBluetooth  AudioDevice = "bluetooth"
	AudioDeviceHeadphones AudioDevice = "headphones"
)

// AudioDeviceSelectionStatus tracks the selected audio route and, while a
// switch is in flight, the route that was asked for.
type AudioDeviceSelectionStatus struct {
	Selected  AudioDevice `json:"selected"`
	Requested AudioDevice `json:"requested,omitempty"`
}

// BluetoothState describes an attached bluetooth audio device.
type BluetoothState struct {
	Available  bool   `json:"available"`
	DeviceName string `json:"deviceName,omitempty"`
}

// ParticipantRole is the meeting role of the local participant.
type ParticipantRole string

const (
	ParticipantRoleUnknown     ParticipantRole = "unknown"
	ParticipantRoleAttendee    ParticipantRole = "attendee"
	ParticipantRoleConsumer    ParticipantRole = "consumer"
	ParticipantRolePresenter   ParticipantRole = "presenter"
	ParticipantRoleOrganizer   ParticipantRole = "organizer"
	ParticipantRoleCoOrganizer ParticipantRole = "co_organizer"
)

// CanManageLobby reports whether the role may see and admit lobby participants.
func (r ParticipantRole) CanManageLobby() bool {
	switch r {
	case ParticipantRolePresenter, ParticipantRoleOrganizer, ParticipantRoleCoOrganizer:
		return true
	default:
		return false
	}
}

// NavigationStatus is the screen the composite is showing.
type NavigationStatus string

const (
	NavigationStatusSetup  NavigationStatus = "setup"
	NavigationStatusInCall NavigationStatus = "in_call"
	NavigationStatusExit   NavigationStatus = "exit"
)

// PermissionStatus is the platform permission state for a device.
type PermissionStatus string

const (
	PermissionStatusUnknown    PermissionStatus = "unknown"
	PermissionStatusNotAsked   PermissionStatus = "not_asked"
	PermissionStatusRequesting PermissionStatus = "requesting"
	PermissionStatusGranted    PermissionStatus = "granted"
	PermissionStatusDenied     PermissionStatus = "denied"
)

// AppStatus is the process lifecycle state.
type AppStatus string

const (
	AppStatusForeground AppStatus = "foreground"
	AppStatusBackground AppStatus = "background"
)

// AudioSessionStatus tracks whether the platform audio session is usable.
type AudioSessionStatus string

const (
	AudioSessionStatusActive      AudioSessionStatus = "active"
	AudioSessionStatusInterrupted AudioSessionStatus = "interrupted"
)

// PictureInPictureStatus tracks the floating window mode.
type PictureInPictureStatus string

const (
	PictureInPictureNone      PictureInPictureStatus = "none"
	PictureInPictureRequested PictureInPictureStatus = "requested"
	PictureInPictureOn        PictureInPictureStatus = "on"
	PictureInPictureOff       PictureInPictureStatus = "off"
)

// LobbyErrorCode identifies failures of lobby management operations.
type LobbyErrorCode string

const (
	LobbyErrorDisabledByConfigurations    LobbyErrorCode = "lobby_disabled_by_configurations"
	LobbyErrorConversationTypeUnsupported LobbyErrorCode = "lobby_conversation_type_not_supported"
	LobbyErrorMeetingRoleNotAllowed       LobbyErrorCode = "lobby_meeting_role_not_allowed"
	LobbyErrorRemoveParticipantFailed     LobbyErrorCode = "remove_participant_operation_failure"
	LobbyErrorUnknown                     LobbyErrorCode = "unknown_error"
)

// CallInfo is one emission of the engine's call-state stream.
type CallInfo struct {
	Status           CallingStatus   `json:"status"`
	EndReasonCode    int             `json:"endReasonCode"`
	EndReasonSubCode int             `json:"endReasonSubCode"`
	Err              *CompositeError `json:"error,omitempty"`
}
