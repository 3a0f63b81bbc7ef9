package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/juju/ratelimit"

	"callcore/internal/domain"
	"callcore/internal/ports"
)

var (
	ErrClosed      = errors.New("signaling connection is closed")
	ErrRateLimited = errors.New("signaling request rate exceeded")
)

// Config controls the signaling websocket.
type Config struct {
	URL               string
	Token             string
	RequestsPerSecond float64
	Burst             int64
	DialTimeout       time.Duration
}

// Client implements ports.CallingService over a JSON-RPC 2.0 websocket. It
// dials lazily on the first request.
type Client struct {
	cfg     Config
	log     logr.Logger
	limiter *ratelimit.Bucket
	dialer  *websocket.Dialer

	connMu sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan rpcMessage

	subMu sync.Mutex
	sub   *subscription

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
	closed    chan struct{}
}

var _ ports.CallingService = (*Client)(nil)

func NewClient(cfg Config, log logr.Logger) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		log:     log,
		limiter: ratelimit.NewBucketWithRate(cfg.RequestsPerSecond, cfg.Burst),
		dialer:  &websocket.Dialer{HandshakeTimeout: cfg.DialTimeout, Proxy: http.ProxyFromEnvironment},
		pending: map[string]chan rpcMessage{},
		closed:  make(chan struct{}),
	}
}

func (c *Client) StartCall(ctx context.Context, opts ports.CallOptions) error {
	return c.call(ctx, methodCallStart, startCallParams{
		CameraOn:     opts.CameraOn,
		MicrophoneOn: opts.MicrophoneOn,
		DisplayName:  opts.DisplayName,
	}, nil)
}

func (c *Client) EndCall(ctx context.Context) error {
	return c.call(ctx, methodCallEnd, nil, nil)
}

func (c *Client) HoldCall(ctx context.Context) error {
	return c.call(ctx, methodCallHold, nil, nil)
}

func (c *Client) ResumeCall(ctx context.Context) error {
	return c.call(ctx, methodCallResume, nil, nil)
}

func (c *Client) TurnLocalCameraOn(ctx context.Context) (string, error) {
	var result streamResult
	if err := c.call(ctx, methodPreviewStart, nil, &result); err != nil {
		return "", err
	}
	return result.StreamID, nil
}

func (c *Client) TurnCameraOn(ctx context.Context) (string, error) {
	var result streamResult
	if err := c.call(ctx, methodCameraStart, nil, &result); err != nil {
		return "", err
	}
	return result.StreamID, nil
}

func (c *Client) TurnCameraOff(ctx context.Context) error {
	return c.call(ctx, methodCameraStop, nil, nil)
}

func (c *Client) SwitchCamera(ctx context.Context) (domain.CameraDevice, error) {
	var result cameraResult
	if err := c.call(ctx, methodCameraSwitch, nil, &result); err != nil {
		return "", err
	}
	device := domain.CameraDevice(result.Device)
	if device != domain.CameraDeviceFront && device != domain.CameraDeviceBack {
		return "", fmt.Errorf("unexpected camera device %q", result.Device)
	}
	return device, nil
}

func (c *Client) TurnMicOn(ctx context.Context) error {
	return c.call(ctx, methodMicrophoneOn, nil, nil)
}

func (c *Client) TurnMicOff(ctx context.Context) error {
	return c.call(ctx, methodMicrophoneOff, nil, nil)
}

func (c *Client) SwitchAudioDevice(ctx context.Context, device domain.AudioDevice) (domain.AudioDevice, error) {
	var result audioDeviceParams
	if err := c.call(ctx, methodAudioDevice, audioDeviceParams{Device: string(device)}, &result); err != nil {
		return "", err
	}
	if result.Device == "" {
		return device, nil
	}
	return domain.AudioDevice(result.Device), nil
}

func (c *Client) AdmitAll(ctx context.Context) error {
	return lobbyErr(c.call(ctx, methodLobbyAdmitAll, nil, nil))
}

func (c *Client) Admit(ctx context.Context, userIdentifiers []string) error {
	return lobbyErr(c.call(ctx, methodLobbyAdmit, admitParams{UserIdentifiers: userIdentifiers}, nil))
}

func (c *Client) Decline(ctx context.Context, userIdentifier string) error {
	return lobbyErr(c.call(ctx, methodLobbyDecline, declineParams{UserIdentifier: userIdentifier}, nil))
}

// Subscribe registers for call notifications. The returned channels close
// when ctx ends; a newer subscription replaces this one.
func (c *Client) Subscribe(ctx context.Context) (ports.CallUpdates, error) {
	sub := newSubscription(ctx)
	c.subMu.Lock()
	previous := c.sub
	c.sub = sub
	c.subMu.Unlock()
	if previous != nil {
		previous.cancel()
	}

	go func() {
		<-sub.ctx.Done()
		c.subMu.Lock()
		if c.sub == sub {
			c.sub = nil
		}
		c.subMu.Unlock()
		sub.close()
	}()

	// Registered first so notifications racing the reply are kept.
	if err := c.call(ctx, methodCallSubscribe, nil, nil); err != nil {
		sub.cancel()
		return ports.CallUpdates{}, err
	}
	return sub.updates(), nil
}

// Close ends the connection and every subscription.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)

		c.subMu.Lock()
		sub := c.sub
		c.sub = nil
		c.subMu.Unlock()
		if sub != nil {
			sub.cancel()
		}

		c.connMu.Lock()
		conn, done := c.conn, c.done
		c.connMu.Unlock()
		if conn != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
			<-done
		}
	})
	return c.waitErr()
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	if c.limiter.TakeAvailable(1) == 0 {
		return fmt.Errorf("%s: %w", method, ErrRateLimited)
	}

	conn, done, err := c.connection(ctx)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	reply := make(chan rpcMessage, 1)
	c.pendingMu.Lock()
	c.pending[id] = reply
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	payload, err := json.Marshal(rpcRequest{JSONRPC: jsonRPCVersion, Method: method, Params: params, ID: id})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", method, err)
	}

	c.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Time{})
	}
	err = conn.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	c.log.V(2).Info("request sent", "method", method, "id", id)

	select {
	case msg := <-reply:
		if msg.Error != nil {
			return fmt.Errorf("%s failed: %w", method, msg.Error)
		}
		if result != nil && len(msg.Result) > 0 {
			if err := json.Unmarshal(msg.Result, result); err != nil {
				return fmt.Errorf("failed to decode %s result: %w", method, err)
			}
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", method, ctx.Err())
	case <-done:
		if err := c.waitErr(); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		return fmt.Errorf("%s: %w", method, ErrClosed)
	}
}

// connection returns the live connection, dialing when there is none.
func (c *Client) connection(ctx context.Context) (*websocket.Conn, chan struct{}, error) {
	select {
	case <-c.closed:
		return nil, nil, ErrClosed
	default:
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		select {
		case <-c.done:
		default:
			return c.conn, c.done, nil
		}
	}

	if strings.TrimSpace(c.cfg.URL) == "" {
		return nil, nil, errors.New("signaling URL is not configured")
	}

	headers := http.Header{}
	if c.cfg.Token != "" {
		headers.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, headers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to signaling server: %w", err)
	}

	c.errMu.Lock()
	c.err = nil
	c.errMu.Unlock()

	done := make(chan struct{})
	c.conn = conn
	c.done = done
	go c.readLoop(conn, done)

	c.log.Info("signaling connected", "url", c.cfg.URL)
	return conn, done, nil
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		close(done)
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.setErr(fmt.Errorf("failed to read signaling message: %w", err))
			c.connectionLost(err)
			return
		}

		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.log.V(1).Info("ignoring malformed frame", "error", err.Error())
			continue
		}

		if msg.Method == "" {
			c.pendingMu.Lock()
			reply, ok := c.pending[msg.ID]
			c.pendingMu.Unlock()
			if ok {
				select {
				case reply <- msg:
				default:
				}
			}
			continue
		}
		c.route(msg)
	}
}

// connectionLost reports an unexpected drop as a disconnect on the call-info
// stream so the call ends with a network error.
func (c *Client) connectionLost(cause error) {
	select {
	case <-c.closed:
		return
	default:
	}
	if websocket.IsCloseError(cause, websocket.CloseNormalClosure) {
		return
	}

	c.subMu.Lock()
	sub := c.sub
	c.subMu.Unlock()
	if sub == nil {
		return
	}
	c.log.Error(cause, "signaling connection lost")
	sub.callInfo.send(sub.ctx, domain.CallInfo{
		Status: domain.CallingStatusDisconnected,
		Err:    domain.NewError(domain.ErrorCodeNetworkNotAvailable, cause),
	})
}

func (c *Client) route(msg rpcMessage) {
	c.subMu.Lock()
	sub := c.sub
	c.subMu.Unlock()
	if sub == nil {
		return
	}

	var err error
	switch msg.Method {
	case notifyCallInfo:
		var p callInfoPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.callInfo.send(sub.ctx, p.callInfo())
		}
	case notifyParticipants:
		var p domain.ParticipantsUpdate
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.participants.send(sub.ctx, p)
		}
	case notifyCallID:
		var p idPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.callID.send(sub.ctx, p.CallID)
		}
	case notifyMuted:
		var p flagPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.muted.send(sub.ctx, p.Value)
		}
	case notifyRecording:
		var p flagPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.recording.send(sub.ctx, p.Value)
		}
	case notifyTranscribing:
		var p flagPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.transcribing.send(sub.ctx, p.Value)
		}
	case notifyDominantSpeakers:
		var p speakersPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.speakers.send(sub.ctx, p.Speakers)
		}
	case notifyTotalCount:
		var p countPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.totalCount.send(sub.ctx, p.Count)
		}
	case notifyDiagnostic:
		var p domain.Diagnostic
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.diagnostics.send(sub.ctx, p)
		}
	case notifyRole:
		var p rolePayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.role.send(sub.ctx, domain.ParticipantRole(p.Role))
		}
	case notifyCameraCount:
		var p countPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.camerasCount.send(sub.ctx, p.Count)
		}
	case notifyTransmission:
		var p transmissionPayload
		if err = json.Unmarshal(msg.Params, &p); err == nil {
			sub.transmission.send(sub.ctx, domain.CameraTransmissionStatus(p.Transmission))
		}
	default:
		c.log.V(1).Info("ignoring notification", "method", msg.Method)
	}
	if err != nil {
		c.log.V(1).Info("ignoring malformed notification", "method", msg.Method, "error", err.Error())
	}
}

func (p callInfoPayload) callInfo() domain.CallInfo {
	info := domain.CallInfo{
		Status:           domain.CallingStatus(p.Status),
		EndReasonCode:    p.EndReasonCode,
		EndReasonSubCode: p.EndReasonSubCode,
	}
	if p.Error != nil && p.Error.Code != "" {
		var cause error
		if p.Error.Message != "" {
			cause = errors.New(p.Error.Message)
		}
		info.Err = domain.NewError(domain.ErrorCode(p.Error.Code), cause)
	}
	return info
}

func lobbyErr(err error) error {
	var rpcErr *rpcError
	if errors.As(err, &rpcErr) && rpcErr.Reason != "" {
		return fmt.Errorf("%w: %w", &domain.LobbyError{Code: domain.LobbyErrorCode(rpcErr.Reason)}, err)
	}
	return err
}

func (c *Client) waitErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Client) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}
	select {
	case <-c.closed:
		return
	default:
	}

	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
	}
}
