package domain

import "fmt"

// ErrorCode identifies failures surfaced through state.
type ErrorCode string

const (
	ErrorCodeCameraOnFailed          ErrorCode = "camera_on_failed"
	ErrorCodeCameraOffFailed         ErrorCode = "camera_off_failed"
	ErrorCodeCameraSwitchFailed      ErrorCode = "camera_switch_failed"
	ErrorCodeMicrophoneOnFailed      ErrorCode = "microphone_on_failed"
	ErrorCodeMicrophoneOffFailed     ErrorCode = "microphone_off_failed"
	ErrorCodeAudioDeviceChangeFailed ErrorCode = "audio_device_change_failed"
	ErrorCodeCallJoinFailed          ErrorCode = "call_join_failed"
	ErrorCodeCallEndFailed           ErrorCode = "call_end_failed"
	ErrorCodeCallHoldFailed          ErrorCode = "call_hold_failed"
	ErrorCodeCallResumeFailed        ErrorCode = "call_resume_failed"
	ErrorCodeCallEvicted             ErrorCode = "call_evicted"
	ErrorCodeCallDenied              ErrorCode = "call_denied"
	ErrorCodeTokenExpired            ErrorCode = "token_expired"
	ErrorCodeNetworkNotAvailable     ErrorCode = "network_connection_not_available"
	ErrorCodePermissionDenied        ErrorCode = "permission_denied"
	ErrorCodeStartup                 ErrorCode = "startup"
)

// EndsCall reports whether an error reported with a None or Disconnected
// status ends the call in a way the user can restart from setup.
func (c ErrorCode) EndsCall() bool {
	switch c {
	case ErrorCodeCallEvicted, ErrorCodeCallDenied, ErrorCodeTokenExpired:
		return true
	default:
		return false
	}
}

// CompositeError is a coded failure stored on a state slice.
type CompositeError struct {
	Code  ErrorCode `json:"code"`
	Cause error     `json:"-"`
}

// NewError wraps cause with code.
func NewError(code ErrorCode, cause error) *CompositeError {
	return &CompositeError{Code: code, Cause: cause}
}

func (e *CompositeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Cause)
}

func (e *CompositeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// LobbyError is returned by the calling engine when a lobby operation is
// rejected.
type LobbyError struct {
	Code LobbyErrorCode
}

func (e *LobbyError) Error() string {
	return "lobby operation failed: " + string(e.Code)
}
