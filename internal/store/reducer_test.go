package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcore/internal/domain"
)

type unrelatedAction struct{}

func (unrelatedAction) action() {}

func TestReduceUnrelatedActionKeepsEverySlice(t *testing.T) {
	t.Parallel()

	s := NewState(InitialState{DisplayName: "Ada"})
	next := Reduce(s, unrelatedAction{})
	require.Same(t, s, next)

	// An action for one slice leaves the other pointers untouched.
	next = Reduce(s, CallIDUpdated{CallID: "call-1"})
	require.NotSame(t, s, next)
	assert.NotSame(t, s.Call, next.Call)
	assert.Same(t, s.LocalUser, next.LocalUser)
	assert.Same(t, s.RemoteParticipants, next.RemoteParticipants)
	assert.Same(t, s.Navigation, next.Navigation)
	assert.Same(t, s.Permission, next.Permission)
	assert.Same(t, s.Lifecycle, next.Lifecycle)
	assert.Same(t, s.Error, next.Error)
	assert.Same(t, s.AudioSession, next.AudioSession)
	assert.Same(t, s.PictureInPicture, next.PictureInPicture)
	assert.Same(t, s.Diagnostics, next.Diagnostics)
}

func TestReduceIsDeterministic(t *testing.T) {
	t.Parallel()

	s := NewState(InitialState{})
	a := CameraOnSucceeded{StreamID: "stream"}
	first := Reduce(s, a)
	second := Reduce(s, a)
	assert.Equal(t, *first.LocalUser, *second.LocalUser)
	assert.Equal(t, domain.CameraOperationOff, s.LocalUser.Camera.Operation, "input must not be mutated")
}

func TestCameraOnTriad(t *testing.T) {
	t.Parallel()

	s := NewState(InitialState{})
	s = Reduce(s, CameraOnRequested{})
	assert.Equal(t, domain.CameraOperationPending, s.LocalUser.Camera.Operation)
	s = Reduce(s, CameraOnTriggered{})
	assert.Equal(t, domain.CameraOperationPending, s.LocalUser.Camera.Operation)

	on := Reduce(s, CameraOnSucceeded{StreamID: "stream-1"})
	assert.Equal(t, domain.CameraOperationOn, on.LocalUser.Camera.Operation)
	assert.Equal(t, "stream-1", on.LocalUser.VideoStreamID)
	assert.Equal(t, domain.CameraTransmissionRemote, on.LocalUser.Camera.Transmission)
	assert.Nil(t, on.LocalUser.Camera.Error)

	cause := errors.New("busy")
	failed := Reduce(s, CameraOnFailed{Err: domain.NewError(domain.ErrorCodeCameraOnFailed, cause)})
	assert.Equal(t, domain.CameraOperationOff, failed.LocalUser.Camera.Operation)
	require.NotNil(t, failed.LocalUser.Camera.Error)
	assert.Equal(t, domain.ErrorCodeCameraOnFailed, failed.LocalUser.Camera.Error.Code)
	assert.ErrorIs(t, failed.LocalUser.Camera.Error, cause)
	assert.Empty(t, failed.LocalUser.VideoStreamID)
}

func TestCameraOffFailureKeepsStream(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), CameraOnSucceeded{StreamID: "stream-1"})
	s = Reduce(s, CameraOffRequested{})
	s = Reduce(s, CameraOffFailed{Err: domain.NewError(domain.ErrorCodeCameraOffFailed, nil)})

	assert.Equal(t, domain.CameraOperationOn, s.LocalUser.Camera.Operation)
	assert.Equal(t, "stream-1", s.LocalUser.VideoStreamID)
	assert.Equal(t, domain.ErrorCodeCameraOffFailed, s.LocalUser.Camera.Error.Code)

	s = Reduce(s, CameraOffSucceeded{})
	assert.Equal(t, domain.CameraOperationOff, s.LocalUser.Camera.Operation)
	assert.Empty(t, s.LocalUser.VideoStreamID)
}

func TestPreviewAndPause(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), CameraPreviewOnTriggered{})
	s = Reduce(s, CameraPreviewOnSucceeded{StreamID: "preview"})
	assert.Equal(t, domain.CameraTransmissionLocal, s.LocalUser.Camera.Transmission)
	assert.Equal(t, "preview", s.LocalUser.VideoStreamID)

	pending := Reduce(s, CameraPauseTriggered{})
	assert.Equal(t, domain.CameraOperationPending, pending.LocalUser.Camera.Operation)

	paused := Reduce(pending, CameraPausedSucceeded{})
	assert.Equal(t, domain.CameraOperationPaused, paused.LocalUser.Camera.Operation)
	assert.Empty(t, paused.LocalUser.VideoStreamID)

	failed := Reduce(pending, CameraPausedFailed{Err: domain.NewError(domain.ErrorCodeCameraOffFailed, nil)})
	assert.Equal(t, domain.CameraOperationOn, failed.LocalUser.Camera.Operation)
}

func TestCameraSwitchRestoresPreviousDeviceOnFailure(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), CameraSwitchTriggered{})
	assert.Equal(t, domain.CameraDeviceSwitching, s.LocalUser.Camera.Device)

	failed := Reduce(s, CameraSwitchFailed{Previous: domain.CameraDeviceFront, Err: domain.NewError(domain.ErrorCodeCameraSwitchFailed, nil)})
	assert.Equal(t, domain.CameraDeviceFront, failed.LocalUser.Camera.Device)

	ok := Reduce(s, CameraSwitchSucceeded{Device: domain.CameraDeviceBack})
	assert.Equal(t, domain.CameraDeviceBack, ok.LocalUser.Camera.Device)
}

func TestMicrophoneTransitions(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), MicrophoneOnRequested{})
	assert.Equal(t, domain.AudioOperationPending, s.LocalUser.Audio.Operation)
	assert.Equal(t, domain.AudioOperationOff, Reduce(s, MicrophoneOnFailed{Err: domain.NewError(domain.ErrorCodeMicrophoneOnFailed, nil)}).LocalUser.Audio.Operation)

	on := Reduce(s, MicrophoneOnSucceeded{})
	assert.Equal(t, domain.AudioOperationOn, on.LocalUser.Audio.Operation)
	assert.Equal(t, domain.AudioOperationOn, Reduce(on, MicrophoneOffFailed{Err: domain.NewError(domain.ErrorCodeMicrophoneOffFailed, nil)}).LocalUser.Audio.Operation)

	muted := Reduce(on, MicrophoneMuteStateUpdated{IsMuted: true})
	assert.Equal(t, domain.AudioOperationOff, muted.LocalUser.Audio.Operation)
	assert.Same(t, muted, Reduce(muted, MicrophoneMuteStateUpdated{IsMuted: true}))
}

func TestAudioDeviceSelection(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), AudioDeviceChangeRequested{Device: domain.AudioDeviceSpeaker})
	assert.Equal(t, domain.AudioDeviceSpeaker, s.LocalUser.Audio.Device.Requested)
	assert.Equal(t, domain.AudioDeviceReceiver, s.LocalUser.Audio.Device.Selected)

	done := Reduce(s, AudioDeviceChangeSucceeded{Device: domain.AudioDeviceSpeaker})
	assert.Equal(t, domain.AudioDeviceSelectionStatus{Selected: domain.AudioDeviceSpeaker}, done.LocalUser.Audio.Device)

	failed := Reduce(s, AudioDeviceChangeFailed{Err: domain.NewError(domain.ErrorCodeAudioDeviceChangeFailed, nil)})
	assert.Equal(t, domain.AudioDeviceSelectionStatus{Selected: domain.AudioDeviceReceiver}, failed.LocalUser.Audio.Device)
}

func TestParticipantListSameTimestampIsNoop(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := Reduce(NewState(InitialState{}), ParticipantListUpdated{
		Participants: map[string]domain.ParticipantInfoModel{"a": {UserIdentifier: "a"}},
		Timestamp:    ts,
	})
	require.Len(t, s.RemoteParticipants.ParticipantMap, 1)

	next := Reduce(s, ParticipantListUpdated{
		Participants: map[string]domain.ParticipantInfoModel{"b": {UserIdentifier: "b"}},
		Timestamp:    ts,
	})
	assert.Same(t, s, next)

	later := Reduce(s, ParticipantListUpdated{Timestamp: ts.Add(time.Second)})
	assert.Empty(t, later.RemoteParticipants.ParticipantMap)
	assert.NotNil(t, later.RemoteParticipants.ParticipantMap)
}

func TestParticipantListIsCopied(t *testing.T) {
	t.Parallel()

	roster := map[string]domain.ParticipantInfoModel{"a": {UserIdentifier: "a"}}
	s := Reduce(NewState(InitialState{}), ParticipantListUpdated{Participants: roster, Timestamp: time.Unix(1, 0)})
	roster["b"] = domain.ParticipantInfoModel{UserIdentifier: "b"}
	assert.Len(t, s.RemoteParticipants.ParticipantMap, 1)
}

func TestNavigationExitIsTerminal(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), NavigationCallLaunched{})
	assert.Equal(t, domain.NavigationStatusInCall, s.Navigation.Status)

	s = Reduce(s, NavigationExit{})
	assert.Same(t, s, Reduce(s, NavigationSetupLaunched{}))
	assert.Same(t, s, Reduce(s, NavigationCallLaunched{}))

	shown := Reduce(s, ShowSupportForm{})
	assert.True(t, shown.Navigation.SupportFormVisible)
	assert.Equal(t, domain.NavigationStatusExit, shown.Navigation.Status)
}

func TestCallStatusRestartsThroughNone(t *testing.T) {
	t.Parallel()

	s := Reduce(NewState(InitialState{}), CallStateUpdated{Status: domain.CallingStatusDisconnected})
	assert.Same(t, s, Reduce(s, CallStateUpdated{Status: domain.CallingStatusConnected}))
	assert.Same(t, s, Reduce(s, CallStateUpdated{Status: "bogus"}))

	restarted := Reduce(s, CallStateUpdated{Status: domain.CallingStatusNone})
	assert.Equal(t, domain.CallingStatusNone, restarted.Call.Status)
}

func TestErrorSlice(t *testing.T) {
	t.Parallel()

	fatal := domain.NewError(domain.ErrorCodeCallJoinFailed, nil)
	callErr := domain.NewError(domain.ErrorCodeTokenExpired, nil)
	s := Reduce(NewState(InitialState{}), FatalErrorOccurred{Err: fatal})
	s = Reduce(s, CallStateErrorOccurred{Err: callErr})
	assert.Same(t, fatal, s.Error.Fatal)
	assert.Same(t, callErr, s.Error.CallState)

	restarted := Reduce(s, CallStartRequested{})
	assert.Nil(t, restarted.Error.CallState)
	assert.Same(t, fatal, restarted.Error.Fatal)

	cleared := Reduce(s, ErrorCleared{})
	assert.Nil(t, cleared.Error.Fatal)
	assert.Nil(t, cleared.Error.CallState)
}

func TestSessionSlices(t *testing.T) {
	t.Parallel()

	s := NewState(InitialState{})
	s = Reduce(s, CameraPermissionRequested{})
	assert.Equal(t, domain.PermissionStatusRequesting, s.Permission.Camera)
	s = Reduce(s, AudioPermissionUpdated{Status: domain.PermissionStatusGranted})
	assert.Equal(t, domain.PermissionStatusGranted, s.Permission.Audio)

	s = Reduce(s, EnterBackgroundSucceeded{})
	assert.Equal(t, domain.AppStatusBackground, s.Lifecycle.Status)

	s = Reduce(s, AudioInterrupted{})
	assert.Equal(t, domain.AudioSessionStatusInterrupted, s.AudioSession.Status)
	s = Reduce(s, AudioInterruptEnded{})
	assert.Equal(t, domain.AudioSessionStatusActive, s.AudioSession.Status)

	s = Reduce(s, PipModeRequested{})
	s = Reduce(s, PipModeEntered{})
	assert.Equal(t, domain.PictureInPictureOn, s.PictureInPicture.Status)
}

func TestDiagnosticsKeepLatestPerKind(t *testing.T) {
	t.Parallel()

	s := NewState(InitialState{})
	first := Reduce(s, NetworkQualityDiagnosticUpdated{Kind: domain.DiagnosticNetworkSendQuality, Quality: domain.DiagnosticQualityPoor})
	assert.Empty(t, s.Diagnostics.NetworkQuality, "previous snapshot must not change")
	assert.Same(t, first, Reduce(first, NetworkQualityDiagnosticUpdated{Kind: domain.DiagnosticNetworkSendQuality, Quality: domain.DiagnosticQualityPoor}))

	second := Reduce(first, MediaDiagnosticUpdated{Kind: domain.DiagnosticCameraFrozen, Value: true})
	assert.True(t, second.Diagnostics.Media[domain.DiagnosticCameraFrozen])
	assert.Equal(t, domain.DiagnosticQualityPoor, second.Diagnostics.NetworkQuality[domain.DiagnosticNetworkSendQuality])
}
