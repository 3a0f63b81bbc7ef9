package signaling

import (
	"encoding/json"
	"fmt"
)

const jsonRPCVersion = "2.0"

// rpcMessage is any JSON-RPC 2.0 frame. Requests from the server without an
// id are notifications; frames with an id and no method are responses.
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      string          `json:"id,omitempty"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      string `json:"id,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Reason carries a machine-readable failure code, such as a lobby error.
	Reason string `json:"reason,omitempty"`
}

func (e *rpcError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("rpc error %d (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Request methods.
const (
	methodCallStart     = "call.start"
	methodCallEnd       = "call.end"
	methodCallHold      = "call.hold"
	methodCallResume    = "call.resume"
	methodPreviewStart  = "camera.preview.start"
	methodCameraStart   = "camera.start"
	methodCameraStop    = "camera.stop"
	methodCameraSwitch  = "camera.switch"
	methodMicrophoneOn  = "microphone.unmute"
	methodMicrophoneOff = "microphone.mute"
	methodAudioDevice   = "audio.device.select"
	methodLobbyAdmitAll = "lobby.admitAll"
	methodLobbyAdmit    = "lobby.admit"
	methodLobbyDecline  = "lobby.decline"
	methodCallSubscribe = "call.subscribe"
)

// Notification methods pushed by the server.
const (
	notifyCallInfo         = "call.info"
	notifyParticipants     = "call.participants"
	notifyCallID           = "call.id"
	notifyMuted            = "call.muted"
	notifyRecording        = "call.recording"
	notifyTranscribing     = "call.transcribing"
	notifyDominantSpeakers = "call.dominantSpeakers"
	notifyTotalCount       = "call.totalCount"
	notifyDiagnostic       = "call.diagnostic"
	notifyRole             = "call.role"
	notifyCameraCount      = "camera.count"
	notifyTransmission     = "camera.transmission"
)

type startCallParams struct {
	CameraOn     bool   `json:"cameraOn"`
	MicrophoneOn bool   `json:"microphoneOn"`
	DisplayName  string `json:"displayName,omitempty"`
}

type streamResult struct {
	StreamID string `json:"streamId"`
}

type cameraResult struct {
	Device string `json:"device"`
}

type audioDeviceParams struct {
	Device string `json:"device"`
}

type admitParams struct {
	UserIdentifiers []string `json:"userIdentifiers"`
}

type declineParams struct {
	UserIdentifier string `json:"userIdentifier"`
}

type callInfoPayload struct {
	Status           string `json:"status"`
	EndReasonCode    int    `json:"endReasonCode"`
	EndReasonSubCode int    `json:"endReasonSubCode"`
	Error            *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type flagPayload struct {
	Value bool `json:"value"`
}

type idPayload struct {
	CallID string `json:"callId"`
}

type speakersPayload struct {
	Speakers []string `json:"speakers"`
}

type countPayload struct {
	Count int `json:"count"`
}

type rolePayload struct {
	Role string `json:"role"`
}

type transmissionPayload struct {
	Transmission string `json:"transmission"`
}
