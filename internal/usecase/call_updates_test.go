package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcore/internal/domain"
	"callcore/internal/store"
)

func TestCallStatusMachineSuppressesRepeats(t *testing.T) {
	t.Parallel()

	m := &callStatusMachine{}
	actions, ended := m.next(domain.CallInfo{Status: domain.CallingStatusConnecting})
	require.Equal(t, []store.Action{store.CallStateUpdated{Status: domain.CallingStatusConnecting}}, actions)
	assert.False(t, ended)

	actions, _ = m.next(domain.CallInfo{Status: domain.CallingStatusConnecting})
	assert.Empty(t, actions)
}

func TestCallStatusMachinePlainDisconnect(t *testing.T) {
	t.Parallel()

	m := &callStatusMachine{}
	m.next(domain.CallInfo{Status: domain.CallingStatusConnected})
	actions, ended := m.next(domain.CallInfo{Status: domain.CallingStatusDisconnected})

	assert.True(t, ended)
	assert.Equal(t, []store.Action{
		store.CallStateUpdated{Status: domain.CallingStatusNone},
		store.CallStateUpdated{Status: domain.CallingStatusDisconnected},
		store.NavigationExit{},
	}, actions)
}

func TestCallStatusMachineCallEndingError(t *testing.T) {
	t.Parallel()

	for _, code := range []domain.ErrorCode{domain.ErrorCodeCallEvicted, domain.ErrorCodeCallDenied, domain.ErrorCodeTokenExpired} {
		m := &callStatusMachine{}
		err := domain.NewError(code, nil)
		actions, ended := m.next(domain.CallInfo{Status: domain.CallingStatusNone, Err: err})

		assert.True(t, ended, code)
		assert.Equal(t, []store.Action{
			store.IsTranscribingUpdated{IsTranscribing: false},
			store.IsRecordingUpdated{IsRecording: false},
			store.CallStateErrorOccurred{Err: err},
			store.CallStateUpdated{Status: domain.CallingStatusNone},
			store.NavigationSetupLaunched{},
		}, actions, code)
	}
}

func TestCallStatusMachineOtherErrorLeavesNavigation(t *testing.T) {
	t.Parallel()

	m := &callStatusMachine{}
	err := domain.NewError(domain.ErrorCodeNetworkNotAvailable, nil)
	actions, ended := m.next(domain.CallInfo{Status: domain.CallingStatusDisconnected, Err: err})

	assert.True(t, ended)
	assert.Equal(t, []store.Action{store.CallStateErrorOccurred{Err: err}}, actions)
}

func TestCallStatusMachineRepeatedErrorIsNotSuppressed(t *testing.T) {
	t.Parallel()

	m := &callStatusMachine{}
	err := domain.NewError(domain.ErrorCodeTokenExpired, nil)
	first, _ := m.next(domain.CallInfo{Status: domain.CallingStatusNone, Err: err})
	second, _ := m.next(domain.CallInfo{Status: domain.CallingStatusNone, Err: err})
	assert.Equal(t, first, second)
}

func TestCallStatusMachineEndReason(t *testing.T) {
	t.Parallel()

	m := &callStatusMachine{}
	actions, _ := m.next(domain.CallInfo{Status: domain.CallingStatusDisconnected, EndReasonCode: 487, EndReasonSubCode: 5000})
	require.NotEmpty(t, actions)
	assert.Equal(t, store.CallEndReasonUpdated{Code: 487, SubCode: 5000}, actions[0])
}

func TestDiagnosticActionRoutesByCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		store.NetworkQualityDiagnosticUpdated{Kind: domain.DiagnosticNetworkSendQuality, Quality: domain.DiagnosticQualityPoor},
		diagnosticAction(domain.Diagnostic{Category: domain.DiagnosticCategoryNetworkQuality, Kind: domain.DiagnosticNetworkSendQuality, Quality: domain.DiagnosticQualityPoor}))
	assert.Equal(t,
		store.MediaDiagnosticUpdated{Kind: domain.DiagnosticCameraFrozen, Value: true},
		diagnosticAction(domain.Diagnostic{Category: domain.DiagnosticCategoryMedia, Kind: domain.DiagnosticCameraFrozen, Value: true}))
	assert.Nil(t, diagnosticAction(domain.Diagnostic{Category: "other"}))
}
