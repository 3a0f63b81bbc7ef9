package main

import (
	"errors"
	"testing"

	"callcore/internal/bootstrap"
	"callcore/internal/domain"
	"callcore/internal/store"
)

func TestCallStatusMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.CallingStatus]string{
		domain.CallingStatusConnecting:    "Connecting...",
		domain.CallingStatusRinging:       "Ringing...",
		domain.CallingStatusInLobby:       "Waiting in lobby",
		domain.CallingStatusConnected:     "Connected",
		domain.CallingStatusLocalHold:     "Call on hold",
		domain.CallingStatusRemoteHold:    "Held by another participant",
		domain.CallingStatusDisconnecting: "Leaving call...",
		domain.CallingStatusDisconnected:  "Call ended",
	}

	for status, want := range cases {
		status := status
		want := want
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()
			if got := callStatusMessage(status); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := callStatusMessage(domain.CallingStatusNone); got != "" {
		t.Fatalf("expected empty message for none, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:             "Startup failed",
		domain.ErrorCodeCallJoinFailed:      "Could not join the call",
		domain.ErrorCodeCallEvicted:         "You were removed from the call",
		domain.ErrorCodeCallDenied:          "You were not admitted to the call",
		domain.ErrorCodeTokenExpired:        "Your session expired",
		domain.ErrorCodeNetworkNotAvailable: "Network connection lost",
		domain.ErrorCodePermissionDenied:    "Device permission denied",
	}
	for code, want := range cases {
		code := code
		want := want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(code, "ignored"); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := errorMessage("unknown", "detail"); got != "detail" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := errorMessage("unknown", ""); got != "Unknown error" {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}

func TestLobbyMessage(t *testing.T) {
	t.Parallel()

	if got := lobbyMessage(domain.LobbyErrorMeetingRoleNotAllowed); got != "Your role cannot manage the lobby" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := lobbyMessage(domain.LobbyErrorUnknown); got != "Lobby operation failed" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}
	if err := app.StartCall(); err == nil {
		t.Fatalf("expected intents to fail before startup")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.ToggleCamera(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
	if info := app.GetRuntimeInfo(); info["error"] != "boot" {
		t.Fatalf("unexpected runtime info: %+v", info)
	}
}

func TestStateChangedTracksErrorsWithoutContext(t *testing.T) {
	t.Parallel()

	app := &App{}
	state := store.NewState(store.InitialState{})
	fatal := domain.NewError(domain.ErrorCodeCallJoinFailed, errors.New("refused"))
	state = store.Reduce(state, store.FatalErrorOccurred{Err: fatal})

	app.StateChanged(state)
	if app.lastFatal != fatal {
		t.Fatalf("expected fatal error to be remembered")
	}

	state = store.Reduce(state, store.LobbyErrorOccurred{Code: domain.LobbyErrorUnknown})
	app.StateChanged(state)
	if app.lastLobby != domain.LobbyErrorUnknown {
		t.Fatalf("expected lobby code to be remembered, got %q", app.lastLobby)
	}
}

func TestStateViewCopiesSlices(t *testing.T) {
	t.Parallel()

	state := store.NewState(store.InitialState{DisplayName: "Ada"})
	view := newStateView(state)
	if view.LocalUser.DisplayName != "Ada" || view.Call.Status != domain.CallingStatusNone {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Navigation.Status != domain.NavigationStatusSetup {
		t.Fatalf("unexpected navigation: %+v", view.Navigation)
	}
}

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	st := store.New(nil)
	t.Cleanup(st.Close)
	return &App{services: &bootstrap.Services{Store: st}}, st
}

func TestPlatformIntentsReachState(t *testing.T) {
	t.Parallel()

	app, st := newTestApp(t)

	if err := app.RequestCameraPermission(); err != nil {
		t.Fatalf("request camera permission: %v", err)
	}
	if got := st.GetState().Permission.Camera; got != domain.PermissionStatusRequesting {
		t.Fatalf("unexpected camera permission: %q", got)
	}
	if err := app.CameraPermissionChanged(string(domain.PermissionStatusDenied)); err != nil {
		t.Fatalf("camera permission changed: %v", err)
	}
	if err := app.AudioPermissionChanged(string(domain.PermissionStatusGranted)); err != nil {
		t.Fatalf("audio permission changed: %v", err)
	}
	if err := app.ShowSupportForm(); err != nil {
		t.Fatalf("show support form: %v", err)
	}
	if err := app.RequestPictureInPicture(); err != nil {
		t.Fatalf("request pip: %v", err)
	}
	if err := app.PictureInPictureEntered(); err != nil {
		t.Fatalf("pip entered: %v", err)
	}
	if err := app.AudioSessionInterrupted(); err != nil {
		t.Fatalf("audio interrupted: %v", err)
	}
	if err := app.AudioRouteChanged(true, "Buds", true); err != nil {
		t.Fatalf("audio route changed: %v", err)
	}
	if err := app.CamerasChanged(2); err != nil {
		t.Fatalf("cameras changed: %v", err)
	}

	state := st.GetState()
	if state.Permission.Camera != domain.PermissionStatusDenied || state.Permission.Audio != domain.PermissionStatusGranted {
		t.Fatalf("unexpected permissions: %+v", *state.Permission)
	}
	if !state.Navigation.SupportFormVisible {
		t.Fatalf("expected support form to be visible")
	}
	if state.PictureInPicture.Status != domain.PictureInPictureOn {
		t.Fatalf("unexpected pip status: %q", state.PictureInPicture.Status)
	}
	if state.AudioSession.Status != domain.AudioSessionStatusInterrupted {
		t.Fatalf("unexpected audio session: %q", state.AudioSession.Status)
	}
	audio := state.LocalUser.Audio
	if !audio.BluetoothState.Available || audio.BluetoothState.DeviceName != "Buds" || !audio.IsHeadphonePlugged {
		t.Fatalf("unexpected audio route: %+v", audio)
	}
	if state.LocalUser.Camera.CamerasCount != 2 {
		t.Fatalf("unexpected camera count: %d", state.LocalUser.Camera.CamerasCount)
	}

	if err := app.HideSupportForm(); err != nil {
		t.Fatalf("hide support form: %v", err)
	}
	if err := app.PictureInPictureExited(); err != nil {
		t.Fatalf("pip exited: %v", err)
	}
	if err := app.AudioSessionInterruptEnded(); err != nil {
		t.Fatalf("audio interrupt ended: %v", err)
	}
	state = st.GetState()
	if state.Navigation.SupportFormVisible || state.PictureInPicture.Status != domain.PictureInPictureOff {
		t.Fatalf("unexpected state after hide: %+v %+v", *state.Navigation, *state.PictureInPicture)
	}
	if state.AudioSession.Status != domain.AudioSessionStatusActive {
		t.Fatalf("unexpected audio session: %q", state.AudioSession.Status)
	}
}

func TestPermissionChangeRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	app, st := newTestApp(t)
	if err := app.CameraPermissionChanged("maybe"); err == nil {
		t.Fatalf("expected unknown status error")
	}
	if got := st.GetState().Permission.Camera; got != domain.PermissionStatusUnknown {
		t.Fatalf("expected permission untouched, got %q", got)
	}
	if err := app.CamerasChanged(-1); err == nil {
		t.Fatalf("expected invalid count error")
	}
}

func TestClearLobbyError(t *testing.T) {
	t.Parallel()

	app, st := newTestApp(t)
	st.Dispatch(store.LobbyErrorOccurred{Code: domain.LobbyErrorUnknown})
	if err := app.ClearLobbyError(); err != nil {
		t.Fatalf("clear lobby error: %v", err)
	}
	if code := st.GetState().RemoteParticipants.LobbyErrorCode; code != "" {
		t.Fatalf("expected lobby error cleared, got %q", code)
	}
}
