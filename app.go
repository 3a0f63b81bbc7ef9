package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"callcore/internal/bootstrap"
	"callcore/internal/domain"
	"callcore/internal/store"
)

const (
	eventState            = "callcore:state"
	eventGrid             = "callcore:grid"
	eventCallState        = "callcore:call-state"
	eventParticipantJoin  = "callcore:participant-joined"
	eventParticipantLeave = "callcore:participant-left"
	eventError            = "callcore:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	services *bootstrap.Services
	bootErr  error

	// Touched only from the presenter goroutine.
	lastFatal     *domain.CompositeError
	lastCallError *domain.CompositeError
	lastLobby     domain.LobbyErrorCode
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.emitError(domain.ErrorCodeStartup, err.Error())
		return
	}
	a.services = services

	if services.Config.Call.StartWithCamera {
		services.Store.Dispatch(store.CameraPreviewOnRequested{})
	}
	if services.Config.Call.StartWithMicrophone {
		services.Store.Dispatch(store.MicrophoneOnRequested{})
	}
}

func (a *App) shutdown(_ context.Context) {
	if a.services != nil {
		a.services.Close()
	}
}

// StartCall joins the configured call with the current device intents.
func (a *App) StartCall() error {
	return a.dispatch(store.CallStartRequested{})
}

// EndCall leaves the current call.
func (a *App) EndCall() error {
	return a.dispatch(store.CallEndRequested{})
}

// ToggleCamera turns the camera off when it is on and on otherwise.
func (a *App) ToggleCamera() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if a.services.Store.GetState().LocalUser.Camera.Operation == domain.CameraOperationOn {
		return a.dispatch(store.CameraOffRequested{})
	}
	return a.dispatch(store.CameraOnRequested{})
}

// ToggleMicrophone mutes an open microphone and unmutes a closed one.
func (a *App) ToggleMicrophone() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if a.services.Store.GetState().LocalUser.Audio.Operation == domain.AudioOperationOn {
		return a.dispatch(store.MicrophoneOffRequested{})
	}
	return a.dispatch(store.MicrophoneOnRequested{})
}

func (a *App) SwitchCamera() error {
	return a.dispatch(store.CameraSwitchRequested{})
}

// SelectAudioDevice routes call audio to device.
func (a *App) SelectAudioDevice(device string) error {
	return a.dispatch(store.AudioDeviceChangeRequested{Device: domain.AudioDevice(device)})
}

func (a *App) Hold() error {
	return a.dispatch(store.HoldRequested{})
}

func (a *App) Resume() error {
	return a.dispatch(store.ResumeRequested{})
}

// EnterBackground is called by the frontend when the window is hidden or
// minimised.
func (a *App) EnterBackground() error {
	return a.dispatch(store.EnterBackgroundRequested{})
}

func (a *App) EnterForeground() error {
	return a.dispatch(store.EnterForegroundRequested{})
}

func (a *App) AdmitAll() error {
	return a.dispatch(store.AdmitAllLobbyParticipants{})
}

func (a *App) Admit(userIdentifier string) error {
	return a.dispatch(store.AdmitLobbyParticipant{UserIdentifier: userIdentifier})
}

func (a *App) Decline(userIdentifier string) error {
	return a.dispatch(store.DeclineLobbyParticipant{UserIdentifier: userIdentifier})
}

// DismissError clears the call-state error banner.
func (a *App) DismissError() error {
	return a.dispatch(store.ErrorCleared{})
}

// ClearLobbyError dismisses the lobby error banner.
func (a *App) ClearLobbyError() error {
	return a.dispatch(store.LobbyErrorCleared{})
}

func (a *App) ShowSupportForm() error {
	return a.dispatch(store.ShowSupportForm{})
}

func (a *App) HideSupportForm() error {
	return a.dispatch(store.HideSupportForm{})
}

// RequestCameraPermission records that the frontend is prompting for camera
// access; CameraPermissionChanged reports the answer.
func (a *App) RequestCameraPermission() error {
	return a.dispatch(store.CameraPermissionRequested{})
}

func (a *App) RequestAudioPermission() error {
	return a.dispatch(store.AudioPermissionRequested{})
}

func (a *App) CameraPermissionChanged(status string) error {
	permission, err := parsePermission(status)
	if err != nil {
		return err
	}
	return a.dispatch(store.CameraPermissionUpdated{Status: permission})
}

func (a *App) AudioPermissionChanged(status string) error {
	permission, err := parsePermission(status)
	if err != nil {
		return err
	}
	return a.dispatch(store.AudioPermissionUpdated{Status: permission})
}

// RequestPictureInPicture asks the frontend to float the call window.
func (a *App) RequestPictureInPicture() error {
	return a.dispatch(store.PipModeRequested{})
}

func (a *App) PictureInPictureEntered() error {
	return a.dispatch(store.PipModeEntered{})
}

func (a *App) PictureInPictureExited() error {
	return a.dispatch(store.PipModeExited{})
}

// AudioSessionInterrupted reports that another application took the audio
// device. A connected call is put on hold.
func (a *App) AudioSessionInterrupted() error {
	return a.dispatch(store.AudioInterrupted{})
}

func (a *App) AudioSessionInterruptEnded() error {
	return a.dispatch(store.AudioInterruptEnded{})
}

func (a *App) AudioSessionEngaged() error {
	return a.dispatch(store.AudioEngaged{})
}

// AudioRouteChanged reports the output devices the frontend can see.
func (a *App) AudioRouteChanged(bluetoothAvailable bool, bluetoothName string, headphonesPlugged bool) error {
	if err := a.dispatch(store.BluetoothStateUpdated{State: domain.BluetoothState{
		Available:  bluetoothAvailable,
		DeviceName: bluetoothName,
	}}); err != nil {
		return err
	}
	return a.dispatch(store.HeadphonesPluggedUpdated{Plugged: headphonesPlugged})
}

// CamerasChanged reports how many cameras the frontend enumerated.
func (a *App) CamerasChanged(count int) error {
	if count < 0 {
		return fmt.Errorf("invalid camera count %d", count)
	}
	return a.dispatch(store.CameraCountUpdated{Count: count})
}

// SetParticipantViewData stores presentation data for a remote participant.
// It reports whether earlier data was replaced.
func (a *App) SetParticipantViewData(userIdentifier string, data domain.ParticipantViewData) (bool, error) {
	if err := a.requireReady(); err != nil {
		return false, err
	}
	if userIdentifier == "" {
		return false, fmt.Errorf("participant identifier is required")
	}
	return a.services.ViewData.Set(userIdentifier, data), nil
}

// GetState returns the current state snapshot for the UI.
func (a *App) GetState() (stateView, error) {
	if err := a.requireReady(); err != nil {
		return stateView{}, err
	}
	return newStateView(a.services.Store.GetState()), nil
}

// GetGrid returns the participants currently shown in the video grid.
func (a *App) GetGrid() []domain.ParticipantInfoModel {
	if a.services == nil {
		return nil
	}
	return a.services.Grid.Grid()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	if a.services == nil {
		return map[string]string{}
	}
	cfg := a.services.Config
	return map[string]string{
		"signalingUrl": cfg.Signaling.URL,
		"displayName":  cfg.Call.DisplayName,
		"role":         cfg.Call.Role,
		"gridSize":     fmt.Sprint(cfg.Grid.MaxCount),
	}
}

func (a *App) dispatch(action store.Action) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.services.Store.Dispatch(action)
	return nil
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.services == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// StateChanged emits every new state and any newly raised error.
func (a *App) StateChanged(state *store.State) {
	if state.Error.Fatal != nil && state.Error.Fatal != a.lastFatal {
		a.emitError(state.Error.Fatal.Code, state.Error.Fatal.Error())
	}
	a.lastFatal = state.Error.Fatal
	if state.Error.CallState != nil && state.Error.CallState != a.lastCallError {
		a.emitError(state.Error.CallState.Code, state.Error.CallState.Error())
	}
	a.lastCallError = state.Error.CallState
	if code := state.RemoteParticipants.LobbyErrorCode; code != "" && code != a.lastLobby {
		a.emitError(domain.ErrorCode(code), lobbyMessage(code))
	}
	a.lastLobby = state.RemoteParticipants.LobbyErrorCode

	a.emit(eventState, newStateView(state))
}

// GridChanged emits the participants selected for the video grid.
func (a *App) GridChanged(grid []domain.ParticipantInfoModel) {
	a.emit(eventGrid, grid)
}

// CallStateChanged emits call lifecycle updates to the frontend.
func (a *App) CallStateChanged(status domain.CallingStatus, callID string, endReasonCode, endReasonSubCode int) {
	a.emit(eventCallState, map[string]any{
		"code":             string(status),
		"callId":           callID,
		"endReasonCode":    endReasonCode,
		"endReasonSubCode": endReasonSubCode,
		"message":          callStatusMessage(status),
	})
}

func (a *App) ParticipantsJoined(userIdentifiers []string) {
	a.emit(eventParticipantJoin, userIdentifiers)
}

func (a *App) ParticipantsLeft(userIdentifiers []string) {
	a.emit(eventParticipantLeave, userIdentifiers)
}

func (a *App) emitError(code domain.ErrorCode, detail string) {
	a.emit(eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func (a *App) emit(name string, payload any) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, payload)
}

// stateView is the JSON shape of store.State sent to the frontend.
type stateView struct {
	Call               store.CallState               `json:"call"`
	LocalUser          store.LocalUserState          `json:"localUser"`
	RemoteParticipants store.RemoteParticipantsState `json:"remoteParticipants"`
	Navigation         store.NavigationState         `json:"navigation"`
	Permission         store.PermissionState         `json:"permission"`
	Lifecycle          store.LifecycleState          `json:"lifecycle"`
	Error              store.ErrorState              `json:"error"`
	AudioSession       store.AudioSessionState       `json:"audioSession"`
	PictureInPicture   store.PictureInPictureState   `json:"pictureInPicture"`
	Diagnostics        store.DiagnosticsState        `json:"diagnostics"`
}

func newStateView(s *store.State) stateView {
	return stateView{
		Call:               *s.Call,
		LocalUser:          *s.LocalUser,
		RemoteParticipants: *s.RemoteParticipants,
		Navigation:         *s.Navigation,
		Permission:         *s.Permission,
		Lifecycle:          *s.Lifecycle,
		Error:              *s.Error,
		AudioSession:       *s.AudioSession,
		PictureInPicture:   *s.PictureInPicture,
		Diagnostics:        *s.Diagnostics,
	}
}

func parsePermission(status string) (domain.PermissionStatus, error) {
	switch p := domain.PermissionStatus(status); p {
	case domain.PermissionStatusNotAsked, domain.PermissionStatusRequesting,
		domain.PermissionStatusGranted, domain.PermissionStatusDenied:
		return p, nil
	default:
		return "", fmt.Errorf("unknown permission status %q", status)
	}
}

func callStatusMessage(status domain.CallingStatus) string {
	switch status {
	case domain.CallingStatusConnecting:
		return "Connecting..."
	case domain.CallingStatusRinging:
		return "Ringing..."
	case domain.CallingStatusInLobby:
		return "Waiting in lobby"
	case domain.CallingStatusConnected:
		return "Connected"
	case domain.CallingStatusLocalHold:
		return "Call on hold"
	case domain.CallingStatusRemoteHold:
		return "Held by another participant"
	case domain.CallingStatusDisconnecting:
		return "Leaving call..."
	case domain.CallingStatusDisconnected:
		return "Call ended"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeCallJoinFailed:
		return "Could not join the call"
	case domain.ErrorCodeCallEvicted:
		return "You were removed from the call"
	case domain.ErrorCodeCallDenied:
		return "You were not admitted to the call"
	case domain.ErrorCodeTokenExpired:
		return "Your session expired"
	case domain.ErrorCodeNetworkNotAvailable:
		return "Network connection lost"
	case domain.ErrorCodePermissionDenied:
		return "Device permission denied"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

func lobbyMessage(code domain.LobbyErrorCode) string {
	switch code {
	case domain.LobbyErrorDisabledByConfigurations:
		return "Lobby is disabled for this meeting"
	case domain.LobbyErrorConversationTypeUnsupported:
		return "Lobby is not supported for this call"
	case domain.LobbyErrorMeetingRoleNotAllowed:
		return "Your role cannot manage the lobby"
	case domain.LobbyErrorRemoveParticipantFailed:
		return "Could not remove the participant"
	default:
		return "Lobby operation failed"
	}
}
