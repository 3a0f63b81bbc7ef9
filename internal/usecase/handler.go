package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"callcore/internal/domain"
	"callcore/internal/ports"
	"callcore/internal/store"
)

var ErrHandlerDisposed = errors.New("calling handler is disposed")

// Config controls device and call operation behavior.
type Config struct {
	OperationTimeout time.Duration
	Now              func() time.Time
}

// CallingHandler performs the asynchronous work behind request actions and
// translates results back into actions. One handler serves one store.
type CallingHandler struct {
	service ports.CallingService
	log     logr.Logger
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc
	ops    sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	current    *activeCall
	generation uint64
}

func NewCallingHandler(service ports.CallingService, log logr.Logger, cfg Config) *CallingHandler {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &CallingHandler{
		service: service,
		log:     log,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Dispose cancels every call's streams and any in-flight operation and waits
// for them to return. Results that arrive afterwards are dropped.
func (h *CallingHandler) Dispose() {
	h.mu.Lock()
	h.closed = true
	h.current = nil
	h.mu.Unlock()

	h.cancel()
	h.ops.Wait()
}

// StartCall joins a call with the device intents found in state and bridges
// the engine's update streams into actions until the call ends.
func (h *CallingHandler) StartCall(state *store.State, dispatch store.Dispatcher) {
	if h.disposed() {
		return
	}

	camera := state.LocalUser.Camera.Operation
	opts := ports.CallOptions{
		CameraOn:     camera == domain.CameraOperationOn || camera == domain.CameraOperationPaused,
		MicrophoneOn: state.LocalUser.Audio.Operation == domain.AudioOperationOn,
		DisplayName:  state.LocalUser.DisplayName,
	}

	h.mu.Lock()
	previous := h.current
	h.generation++
	callCtx, cancel := context.WithCancel(h.ctx)
	call := &activeCall{generation: h.generation, cancel: cancel}
	h.current = call
	h.mu.Unlock()

	// This may run on a stream goroutine of the previous call, so its streams
	// are only cancelled here. Dispose waits for them.
	if previous != nil {
		h.log.Info("restarting call, previous streams cancelled", "generation", previous.generation)
		previous.cancel()
	}

	h.run(func(ctx context.Context) {
		updates, err := h.service.Subscribe(callCtx)
		if err != nil {
			h.failCall(call, dispatch, err)
			return
		}
		if !h.spawn(func() { h.consumeUpdates(callCtx, call, updates, dispatch) }) {
			return
		}

		if err := h.service.StartCall(ctx, opts); err != nil {
			h.failCall(call, dispatch, err)
			return
		}
		h.log.Info("call started", "generation", call.generation, "camera", opts.CameraOn, "microphone", opts.MicrophoneOn)
		h.resolve(dispatch, store.NavigationCallLaunched{})
	})
}

func (h *CallingHandler) failCall(call *activeCall, dispatch store.Dispatcher, err error) {
	h.log.Error(err, "call join failed", "generation", call.generation)
	h.endCall(call)
	h.resolve(dispatch, store.FatalErrorOccurred{Err: domain.NewError(domain.ErrorCodeCallJoinFailed, err)})
}

// EndCall asks the engine to hang up. The disconnect itself arrives on the
// call-info stream.
func (h *CallingHandler) EndCall(dispatch store.Dispatcher) {
	h.run(func(ctx context.Context) {
		if err := h.service.EndCall(ctx); err != nil {
			h.log.Error(err, "end call failed")
			h.resolve(dispatch, store.FatalErrorOccurred{Err: domain.NewError(domain.ErrorCodeCallEndFailed, err)})
		}
	})
}

func (h *CallingHandler) Hold(dispatch store.Dispatcher) {
	h.run(func(ctx context.Context) {
		if err := h.service.HoldCall(ctx); err != nil {
			h.resolve(dispatch, store.CallStateErrorOccurred{Err: domain.NewError(domain.ErrorCodeCallHoldFailed, err)})
		}
	})
}

func (h *CallingHandler) Resume(dispatch store.Dispatcher) {
	h.run(func(ctx context.Context) {
		if err := h.service.ResumeCall(ctx); err != nil {
			h.resolve(dispatch, store.CallStateErrorOccurred{Err: domain.NewError(domain.ErrorCodeCallResumeFailed, err)})
		}
	})
}

// AudioInterrupted holds a connected call while the platform owns audio.
func (h *CallingHandler) AudioInterrupted(state *store.State, dispatch store.Dispatcher) {
	if state.Call.Status != domain.CallingStatusConnected {
		return
	}
	dispatch.Dispatch(store.HoldRequested{})
}

// RequestCameraPreviewOn runs the preview triad.
func (h *CallingHandler) RequestCameraPreviewOn(state *store.State, dispatch store.Dispatcher) {
	if state.LocalUser.Camera.Operation == domain.CameraOperationPending {
		return
	}
	if state.Permission.Camera == domain.PermissionStatusDenied {
		dispatch.Dispatch(store.CameraPreviewOnFailed{Err: domain.NewError(domain.ErrorCodePermissionDenied, nil)})
		return
	}
	h.triggerCameraPreviewOn(dispatch)
}

func (h *CallingHandler) triggerCameraPreviewOn(dispatch store.Dispatcher) {
	dispatch.Dispatch(store.CameraPreviewOnTriggered{})
	h.run(func(ctx context.Context) {
		streamID, err := h.service.TurnLocalCameraOn(ctx)
		if err != nil {
			h.resolve(dispatch, store.CameraPreviewOnFailed{Err: domain.NewError(domain.ErrorCodeCameraOnFailed, err)})
			return
		}
		h.resolve(dispatch, store.CameraPreviewOnSucceeded{StreamID: streamID})
	})
}

// RequestCameraOn runs the camera-on triad, or the preview triad when no
// call is active.
func (h *CallingHandler) RequestCameraOn(state *store.State, dispatch store.Dispatcher) {
	if state.LocalUser.Camera.Operation == domain.CameraOperationPending {
		return
	}
	if state.Permission.Camera == domain.PermissionStatusDenied {
		dispatch.Dispatch(store.CameraOnFailed{Err: domain.NewError(domain.ErrorCodePermissionDenied, nil)})
		return
	}
	if !state.Call.Status.IsActive() {
		h.triggerCameraPreviewOn(dispatch)
		return
	}
	h.triggerCameraOn(dispatch)
}

func (h *CallingHandler) triggerCameraOn(dispatch store.Dispatcher) {
	dispatch.Dispatch(store.CameraOnTriggered{})
	h.run(func(ctx context.Context) {
		streamID, err := h.service.TurnCameraOn(ctx)
		if err != nil {
			h.resolve(dispatch, store.CameraOnFailed{Err: domain.NewError(domain.ErrorCodeCameraOnFailed, err)})
			return
		}
		h.resolve(dispatch, store.CameraOnSucceeded{StreamID: streamID})
	})
}

// RequestCameraOff runs the camera-off triad.
func (h *CallingHandler) RequestCameraOff(state *store.State, dispatch store.Dispatcher) {
	if state.LocalUser.Camera.Operation == domain.CameraOperationPending {
		return
	}
	dispatch.Dispatch(store.CameraOffTriggered{})
	h.run(func(ctx context.Context) {
		if err := h.service.TurnCameraOff(ctx); err != nil {
			h.resolve(dispatch, store.CameraOffFailed{Err: domain.NewError(domain.ErrorCodeCameraOffFailed, err)})
			return
		}
		h.resolve(dispatch, store.CameraOffSucceeded{})
	})
}

func (h *CallingHandler) RequestCameraSwitch(state *store.State, dispatch store.Dispatcher) {
	previous := state.LocalUser.Camera.Device
	if previous == domain.CameraDeviceSwitching {
		return
	}
	dispatch.Dispatch(store.CameraSwitchTriggered{})
	h.run(func(ctx context.Context) {
		device, err := h.service.SwitchCamera(ctx)
		if err != nil {
			h.resolve(dispatch, store.CameraSwitchFailed{
				Previous: previous,
				Err:      domain.NewError(domain.ErrorCodeCameraSwitchFailed, err),
			})
			return
		}
		h.resolve(dispatch, store.CameraSwitchSucceeded{Device: device})
	})
}

// RequestMicrophoneOn runs the microphone-on triad. Before a call the
// microphone is only an intent for StartCall, so it resolves immediately.
func (h *CallingHandler) RequestMicrophoneOn(state *store.State, dispatch store.Dispatcher) {
	if state.LocalUser.Audio.Operation == domain.AudioOperationPending {
		return
	}
	dispatch.Dispatch(store.MicrophoneOnTriggered{})
	if !state.Call.Status.IsActive() {
		dispatch.Dispatch(store.MicrophoneOnSucceeded{})
		return
	}
	h.run(func(ctx context.Context) {
		if err := h.service.TurnMicOn(ctx); err != nil {
			h.resolve(dispatch, store.MicrophoneOnFailed{Err: domain.NewError(domain.ErrorCodeMicrophoneOnFailed, err)})
			return
		}
		h.resolve(dispatch, store.MicrophoneOnSucceeded{})
	})
}

func (h *CallingHandler) RequestMicrophoneOff(state *store.State, dispatch store.Dispatcher) {
	if state.LocalUser.Audio.Operation == domain.AudioOperationPending {
		return
	}
	dispatch.Dispatch(store.MicrophoneOffTriggered{})
	if !state.Call.Status.IsActive() {
		dispatch.Dispatch(store.MicrophoneOffSucceeded{})
		return
	}
	h.run(func(ctx context.Context) {
		if err := h.service.TurnMicOff(ctx); err != nil {
			h.resolve(dispatch, store.MicrophoneOffFailed{Err: domain.NewError(domain.ErrorCodeMicrophoneOffFailed, err)})
			return
		}
		h.resolve(dispatch, store.MicrophoneOffSucceeded{})
	})
}

func (h *CallingHandler) RequestAudioDeviceChange(state *store.State, device domain.AudioDevice, dispatch store.Dispatcher) {
	if state.LocalUser.Audio.Device.Requested != "" {
		return
	}
	h.run(func(ctx context.Context) {
		selected, err := h.service.SwitchAudioDevice(ctx, device)
		if err != nil {
			h.resolve(dispatch, store.AudioDeviceChangeFailed{Err: domain.NewError(domain.ErrorCodeAudioDeviceChangeFailed, err)})
			return
		}
		h.resolve(dispatch, store.AudioDeviceChangeSucceeded{Device: selected})
	})
}

// EnterBackground records the lifecycle change and pauses a running camera.
func (h *CallingHandler) EnterBackground(state *store.State, dispatch store.Dispatcher) {
	dispatch.Dispatch(store.EnterBackgroundSucceeded{})

	if state.LocalUser.Camera.Operation != domain.CameraOperationOn {
		return
	}
	if !state.Call.Status.IsActive() {
		// The preview has no engine stream to stop.
		dispatch.Dispatch(store.CameraPausedSucceeded{})
		return
	}
	dispatch.Dispatch(store.CameraPauseTriggered{})
	h.run(func(ctx context.Context) {
		if err := h.service.TurnCameraOff(ctx); err != nil {
			h.resolve(dispatch, store.CameraPausedFailed{Err: domain.NewError(domain.ErrorCodeCameraOffFailed, err)})
			return
		}
		h.resolve(dispatch, store.CameraPausedSucceeded{})
	})
}

// EnterForeground records the lifecycle change and resumes a camera that
// backgrounding paused: the call camera in a call, the preview otherwise.
func (h *CallingHandler) EnterForeground(state *store.State, dispatch store.Dispatcher) {
	dispatch.Dispatch(store.EnterForegroundSucceeded{})

	if state.LocalUser.Camera.Operation != domain.CameraOperationPaused {
		return
	}
	if state.Call.Status.IsActive() {
		h.triggerCameraOn(dispatch)
		return
	}
	h.triggerCameraPreviewOn(dispatch)
}

func (h *CallingHandler) AdmitAll(dispatch store.Dispatcher) {
	h.run(func(ctx context.Context) {
		h.resolveLobby(dispatch, h.service.AdmitAll(ctx))
	})
}

func (h *CallingHandler) Admit(userIdentifier string, dispatch store.Dispatcher) {
	h.run(func(ctx context.Context) {
		h.resolveLobby(dispatch, h.service.Admit(ctx, []string{userIdentifier}))
	})
}

func (h *CallingHandler) Decline(userIdentifier string, dispatch store.Dispatcher) {
	h.run(func(ctx context.Context) {
		h.resolveLobby(dispatch, h.service.Decline(ctx, userIdentifier))
	})
}

func (h *CallingHandler) resolveLobby(dispatch store.Dispatcher, err error) {
	if err == nil {
		return
	}
	code := domain.LobbyErrorUnknown
	var lobbyErr *domain.LobbyError
	if errors.As(err, &lobbyErr) && lobbyErr.Code != "" {
		code = lobbyErr.Code
	}
	h.log.Error(err, "lobby operation failed", "code", code)
	h.resolve(dispatch, store.LobbyErrorOccurred{Code: code})
}

// run executes op on its own goroutine with a bounded context derived from
// the handler's lifetime. It reports false when the handler is disposed.
func (h *CallingHandler) run(op func(ctx context.Context)) bool {
	return h.spawn(func() {
		ctx, cancel := context.WithTimeout(h.ctx, h.cfg.OperationTimeout)
		defer cancel()
		op(ctx)
	})
}

// spawn starts fn on a goroutine that Dispose waits for. The closed check and
// ops.Add share h.mu so no Add can race Dispose's Wait.
func (h *CallingHandler) spawn(fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.ops.Add(1)
	go func() {
		defer h.ops.Done()
		fn()
	}()
	return true
}

// resolve dispatches an operation result unless the handler was disposed
// while the operation was in flight.
func (h *CallingHandler) resolve(dispatch store.Dispatcher, action store.Action) {
	if h.disposed() {
		h.log.V(1).Info("dropping late result", "reason", ErrHandlerDisposed.Error())
		return
	}
	dispatch.Dispatch(action)
}

func (h *CallingHandler) disposed() bool {
	return h.ctx.Err() != nil
}

func (h *CallingHandler) endCall(call *activeCall) {
	h.mu.Lock()
	if h.current == call {
		h.current = nil
	}
	h.mu.Unlock()
	call.cancel()
}
