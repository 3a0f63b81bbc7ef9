package bootstrap

import (
	"sync"

	"github.com/go-logr/logr"

	"callcore/internal/config"
	"callcore/internal/domain"
	"callcore/internal/events"
	"callcore/internal/logging"
	"callcore/internal/ports"
	"callcore/internal/providers/signaling"
	"callcore/internal/store"
	"callcore/internal/usecase"
	"callcore/internal/viewmodel"
)

// Services is the assembled runtime graph.
type Services struct {
	Config   config.Config
	Logger   logr.Logger
	Store    *store.Store
	Handler  *usecase.CallingHandler
	Bridge   *events.Bridge
	Grid     *viewmodel.GridViewModel
	ViewData *viewmodel.ParticipantViewDataStore
	Client   *signaling.Client

	removers    []func()
	unsubscribe func()
	presenting  sync.WaitGroup
	closeOnce   sync.Once
}

// Build loads configuration and wires the store, the calling handler and
// the signaling client, then starts forwarding state to sink.
func Build(sink ports.EventSink) (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return assemble(cfg, log, sink), nil
}

func assemble(cfg config.Config, log logr.Logger, sink ports.EventSink) *Services {
	client := signaling.NewClient(signaling.Config{
		URL:               cfg.Signaling.URL,
		Token:             cfg.Signaling.Token,
		RequestsPerSecond: cfg.Signaling.RequestsPerSecond,
		Burst:             cfg.Signaling.Burst,
		DialTimeout:       cfg.Signaling.DialTimeout,
	}, log.WithName("signaling"))

	handler := usecase.NewCallingHandler(client, log.WithName("calling"), usecase.Config{
		OperationTimeout: cfg.Session.OperationTimeout,
	})

	initial := store.NewState(store.InitialState{
		DisplayName: cfg.Call.DisplayName,
		Role:        domain.ParticipantRole(cfg.Call.Role),
	})
	st := store.New(initial,
		store.WithLogger(log.WithName("store")),
		store.WithMiddleware(usecase.NewCallingMiddleware(handler)),
	)

	viewData := viewmodel.NewParticipantViewDataStore()
	s := &Services{
		Config:   cfg,
		Logger:   log,
		Store:    st,
		Handler:  handler,
		Bridge:   events.NewBridge(log.WithName("events"), viewData),
		Grid:     viewmodel.NewGridViewModel(cfg.Grid.MaxCount),
		ViewData: viewData,
		Client:   client,
	}

	s.removers = append(s.removers,
		s.Bridge.OnCallStateChanged(func(change events.CallStateChange) {
			sink.CallStateChanged(change.Code, change.CallID, change.EndReasonCode, change.EndReasonSubCode)
		}),
		s.Bridge.OnRemoteParticipantJoined(sink.ParticipantsJoined),
		s.Bridge.OnRemoteParticipantLeft(sink.ParticipantsLeft),
	)

	states, unsubscribe := st.Subscribe()
	s.unsubscribe = unsubscribe
	s.presenting.Add(1)
	go func() {
		defer s.presenting.Done()
		s.present(states, sink)
	}()

	return s
}

// present drives the bridge and the grid from the state stream. The bridge
// runs first so view data of departed participants is gone before the UI
// sees the new state.
func (s *Services) present(states <-chan *store.State, sink ports.EventSink) {
	for state := range states {
		s.Bridge.Observe(state)
		if grid, changed := s.Grid.Update(state); changed {
			sink.GridChanged(grid)
		}
		sink.StateChanged(state)
	}
}

// Close stops in-flight work, then the store, then the transport.
func (s *Services) Close() {
	s.closeOnce.Do(func() {
		for _, remove := range s.removers {
			remove()
		}
		s.Handler.Dispose()
		s.Store.Close()
		s.unsubscribe()
		s.presenting.Wait()
		if err := s.Client.Close(); err != nil {
			s.Logger.Error(err, "close signaling client")
		}
	})
}
