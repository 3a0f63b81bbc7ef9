package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"callcore/internal/domain"
	"callcore/internal/ports"
	"callcore/internal/store"
)

type fakeCallingService struct {
	mu    sync.Mutex
	calls map[string]int
	opts  []ports.CallOptions

	startErr     error
	subscribeErr error
	cameraOnErr  error
	cameraOffErr error
	lobbyErr     error

	// cameraGate and cameraOffGate, when set, block TurnCameraOn and
	// TurnCameraOff until closed or ctx ends.
	cameraGate    chan struct{}
	cameraOffGate chan struct{}

	callInfo     chan domain.CallInfo
	participants chan domain.ParticipantsUpdate
	muted        chan bool
	role         chan domain.ParticipantRole
	camerasCount chan int
	subscribed   chan struct{}
}

func newFakeCallingService() *fakeCallingService {
	return &fakeCallingService{
		calls:        map[string]int{},
		callInfo:     make(chan domain.CallInfo, 8),
		participants: make(chan domain.ParticipantsUpdate, 8),
		muted:        make(chan bool, 8),
		role:         make(chan domain.ParticipantRole, 8),
		camerasCount: make(chan int, 8),
		subscribed:   make(chan struct{}, 1),
	}
}

func (f *fakeCallingService) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeCallingService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCallingService) StartCall(_ context.Context, opts ports.CallOptions) error {
	f.mu.Lock()
	f.calls["StartCall"]++
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	return f.startErr
}

func (f *fakeCallingService) EndCall(context.Context) error {
	f.record("EndCall")
	return nil
}

func (f *fakeCallingService) HoldCall(context.Context) error {
	f.record("HoldCall")
	return nil
}

func (f *fakeCallingService) ResumeCall(context.Context) error {
	f.record("ResumeCall")
	return nil
}

func (f *fakeCallingService) TurnLocalCameraOn(context.Context) (string, error) {
	f.record("TurnLocalCameraOn")
	return "preview-stream", nil
}

func (f *fakeCallingService) TurnCameraOn(ctx context.Context) (string, error) {
	f.record("TurnCameraOn")
	if f.cameraGate != nil {
		select {
		case <-f.cameraGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.cameraOnErr != nil {
		return "", f.cameraOnErr
	}
	return "call-stream", nil
}

func (f *fakeCallingService) TurnCameraOff(ctx context.Context) error {
	f.record("TurnCameraOff")
	if f.cameraOffGate != nil {
		select {
		case <-f.cameraOffGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.cameraOffErr
}

func (f *fakeCallingService) SwitchCamera(context.Context) (domain.CameraDevice, error) {
	f.record("SwitchCamera")
	return domain.CameraDeviceBack, nil
}

func (f *fakeCallingService) TurnMicOn(context.Context) error {
	f.record("TurnMicOn")
	return nil
}

func (f *fakeCallingService) TurnMicOff(context.Context) error {
	f.record("TurnMicOff")
	return nil
}

func (f *fakeCallingService) SwitchAudioDevice(_ context.Context, device domain.AudioDevice) (domain.AudioDevice, error) {
	f.record("SwitchAudioDevice")
	return device, nil
}

func (f *fakeCallingService) AdmitAll(context.Context) error {
	f.record("AdmitAll")
	return f.lobbyErr
}

func (f *fakeCallingService) Admit(context.Context, []string) error {
	f.record("Admit")
	return f.lobbyErr
}

func (f *fakeCallingService) Decline(context.Context, string) error {
	f.record("Decline")
	return f.lobbyErr
}

func (f *fakeCallingService) Subscribe(context.Context) (ports.CallUpdates, error) {
	f.record("Subscribe")
	if f.subscribeErr != nil {
		return ports.CallUpdates{}, f.subscribeErr
	}
	select {
	case f.subscribed <- struct{}{}:
	default:
	}
	return ports.CallUpdates{
		CallInfo:     f.callInfo,
		Participants: f.participants,
		IsMuted:      f.muted,
		Role:         f.role,
		CamerasCount: f.camerasCount,
	}, nil
}

// actionRecorder is a middleware that keeps every action the store processes.
type actionRecorder struct {
	mu      sync.Mutex
	actions []store.Action
}

func (r *actionRecorder) Handle(action store.Action, _ *store.State, _ store.Dispatcher) {
	r.mu.Lock()
	r.actions = append(r.actions, action)
	r.mu.Unlock()
}

func (r *actionRecorder) snapshot() []store.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Action, len(r.actions))
	copy(out, r.actions)
	return out
}

func countActions[T store.Action](actions []store.Action, match func(T) bool) int {
	n := 0
	for _, a := range actions {
		typed, ok := a.(T)
		if !ok {
			continue
		}
		if match == nil || match(typed) {
			n++
		}
	}
	return n
}

type harness struct {
	service  *fakeCallingService
	handler  *CallingHandler
	store    *store.Store
	recorder *actionRecorder
}

func newHarness(t *testing.T, initial *store.State) *harness {
	t.Helper()

	service := newFakeCallingService()
	handler := NewCallingHandler(service, logr.Discard(), Config{
		OperationTimeout: time.Second,
		Now:              func() time.Time { return time.Unix(1700000000, 0) },
	})
	recorder := &actionRecorder{}
	st := store.New(initial, store.WithMiddleware(recorder, NewCallingMiddleware(handler)))
	t.Cleanup(func() {
		handler.Dispose()
		st.Close()
	})
	return &harness{service: service, handler: handler, store: st, recorder: recorder}
}

func stateWith(camera domain.CameraOperationalStatus, status domain.CallingStatus) *store.State {
	st := store.NewState(store.InitialState{DisplayName: "Ada"})
	local := *st.LocalUser
	local.Camera.Operation = camera
	if camera == domain.CameraOperationOn {
		local.VideoStreamID = "existing-stream"
	}
	st.LocalUser = &local
	call := *st.Call
	call.Status = status
	st.Call = &call
	return st
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}
