package viewmodel

import (
	"slices"
	"strings"
	"sync"
	"time"

	"callcore/internal/domain"
	"callcore/internal/store"
)

// DefaultGridSize is the number of tiles shown when no size is configured.
const DefaultGridSize = 6

// SelectGridParticipants projects roster onto at most maxCount tiles, most
// recently modified first. An active screen share takes the whole grid; when
// several participants share, the most recently modified one wins. Lobby
// participants are shown only to roles that manage the lobby.
func SelectGridParticipants(roster map[string]domain.ParticipantInfoModel, maxCount int, role domain.ParticipantRole) []domain.ParticipantInfoModel {
	if maxCount <= 0 {
		maxCount = DefaultGridSize
	}

	candidates := make([]domain.ParticipantInfoModel, 0, len(roster))
	var sharers []domain.ParticipantInfoModel
	for _, p := range roster {
		if p.Status == domain.ParticipantStatusInLobby && !role.CanManageLobby() {
			continue
		}
		if p.IsScreenSharing() {
			sharers = append(sharers, p)
		}
		candidates = append(candidates, p)
	}

	if len(sharers) > 0 {
		slices.SortFunc(sharers, byRecency)
		return sharers[:1]
	}

	slices.SortFunc(candidates, byRecency)
	if len(candidates) > maxCount {
		candidates = candidates[:maxCount]
	}
	return candidates
}

func byRecency(a, b domain.ParticipantInfoModel) int {
	if c := b.ModifiedTimestamp.Compare(a.ModifiedTimestamp); c != 0 {
		return c
	}
	return strings.Compare(a.UserIdentifier, b.UserIdentifier)
}

// GridViewModel recomputes the grid only when the roster version or the
// local role changes.
type GridViewModel struct {
	maxCount int

	mu      sync.Mutex
	primed  bool
	version time.Time
	role    domain.ParticipantRole
	grid    []domain.ParticipantInfoModel
}

func NewGridViewModel(maxCount int) *GridViewModel {
	if maxCount <= 0 {
		maxCount = DefaultGridSize
	}
	return &GridViewModel{maxCount: maxCount}
}

// Update returns the grid for state and whether it is a new projection.
func (g *GridViewModel) Update(state *store.State) ([]domain.ParticipantInfoModel, bool) {
	roster := state.RemoteParticipants
	role := state.LocalUser.Role

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.primed && roster.LastUpdateTimestamp.Equal(g.version) && role == g.role {
		return slices.Clone(g.grid), false
	}
	g.primed = true
	g.version = roster.LastUpdateTimestamp
	g.role = role
	g.grid = SelectGridParticipants(roster.ParticipantMap, g.maxCount, role)
	return slices.Clone(g.grid), true
}

// Grid returns the last projection.
func (g *GridViewModel) Grid() []domain.ParticipantInfoModel {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.grid)
}
