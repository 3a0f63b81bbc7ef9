package ports

import (
	"context"

	"callcore/internal/domain"
	"callcore/internal/store"
)

// CallOptions are the initial device intents for joining a call.
type CallOptions struct {
	CameraOn     bool
	MicrophoneOn bool
	DisplayName  string
}

// CallUpdates are the engine's continuous streams for one call. Every
// channel is closed when the subscription context ends.
type CallUpdates struct {
	Participants     <-chan domain.ParticipantsUpdate
	CallInfo         <-chan domain.CallInfo
	CallID           <-chan string
	IsMuted          <-chan bool
	IsRecording      <-chan bool
	IsTranscribing   <-chan bool
	DominantSpeakers <-chan []string
	TotalCount       <-chan int
	Diagnostics      <-chan domain.Diagnostic
	// Role is the local participant's meeting role as granted by the call.
	Role         <-chan domain.ParticipantRole
	CamerasCount <-chan int
	Transmission <-chan domain.CameraTransmissionStatus
}

// CallingService is the calling and media engine.
type CallingService interface {
	StartCall(ctx context.Context, opts CallOptions) error
	EndCall(ctx context.Context) error
	HoldCall(ctx context.Context) error
	ResumeCall(ctx context.Context) error

	// TurnLocalCameraOn starts the pre-call preview and returns its stream id.
	TurnLocalCameraOn(ctx context.Context) (string, error)
	// TurnCameraOn starts sending local video and returns its stream id.
	TurnCameraOn(ctx context.Context) (string, error)
	TurnCameraOff(ctx context.Context) error
	SwitchCamera(ctx context.Context) (domain.CameraDevice, error)

	TurnMicOn(ctx context.Context) error
	TurnMicOff(ctx context.Context) error
	SwitchAudioDevice(ctx context.Context, device domain.AudioDevice) (domain.AudioDevice, error)

	AdmitAll(ctx context.Context) error
	Admit(ctx context.Context, userIdentifiers []string) error
	Decline(ctx context.Context, userIdentifier string) error

	// Subscribe opens the update streams for the current call.
	Subscribe(ctx context.Context) (CallUpdates, error)
}

// EventSink receives presentation updates for the host UI. Calls arrive on
// a single goroutine in state order.
type EventSink interface {
	StateChanged(state *store.State)
	GridChanged(grid []domain.ParticipantInfoModel)
	CallStateChanged(status domain.CallingStatus, callID string, endReasonCode, endReasonSubCode int)
	ParticipantsJoined(userIdentifiers []string)
	ParticipantsLeft(userIdentifiers []string)
}
