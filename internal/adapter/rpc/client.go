package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"address-inspector/internal/domain/entity"
	"address-inspector/internal/pkg/apperrors"

	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 15 * time.Second

// jsonRPCRequest is the envelope of an outgoing JSON-RPC call.
type jsonRPCRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// JSONRPCResponse defines the basic structure for a JSON-RPC response.
type JSONRPCResponse struct {
	ID      json.RawMessage `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// Options tunes the transport.
type Options struct {
	RequestTimeout   time.Duration
	HandshakeTimeout time.Duration
	// Dial replaces the fasthttp dialer; used by tests with in-memory listeners.
	Dial fasthttp.DialFunc
}

// Client speaks JSON-RPC 2.0 to one endpoint over http(s) or ws(s).
type Client struct {
	url     entity.RPCURL
	http    *fasthttp.Client
	dialer  websocket.Dialer
	timeout time.Duration
	nextID  atomic.Uint64
	logger  *zap.Logger
}

// NewClient creates a JSON-RPC client for the endpoint.
func NewClient(url entity.RPCURL, opts Options, logger *zap.Logger) *Client {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	handshake := opts.HandshakeTimeout
	if handshake <= 0 {
		handshake = 10 * time.Second
	}

	return &Client{
		url: url,
		http: &fasthttp.Client{
			ReadTimeout: timeout,
			Dial:        opts.Dial,
		},
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshake,
		},
		timeout: timeout,
		logger:  logger.Named("RPCClient").With(zap.String("url", url.String())),
	}
}

// Call performs one JSON-RPC call and decodes the result into result.
func (c *Client) Call(ctx context.Context, result any, method string, params ...any) error {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(jsonRPCRequest{
		Jsonrpc: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s request: %v", apperrors.ErrInvalidInput, method, err)
	}

	var body []byte
	if c.url.IsWebSocket() {
		body, err = c.roundTripWS(ctx, payload)
	} else {
		body, err = c.roundTripHTTP(ctx, payload)
	}
	if err != nil {
		return err
	}

	return c.decodeResponse(method, body, result)
}

// effectiveTimeout returns the smaller of the client timeout and the time left on ctx.
func (c *Client) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func (c *Client) roundTripHTTP(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.contextError(err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url.String())
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	timeout := c.effectiveTimeout(ctx)
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: no time left for request to %s", apperrors.ErrTimeout, c.url)
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			c.logger.Debug("HTTP RPC request timed out", zap.Duration("timeout", timeout), zap.Error(err))
			return nil, fmt.Errorf("%w: http request to %s timed out after %v: %v",
				apperrors.ErrTimeout, c.url, timeout, err,
			)
		}
		c.logger.Debug("HTTP RPC request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: http request to %s failed: %v",
			apperrors.ErrExternalServiceFailure, c.url, err,
		)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug("HTTP RPC returned non-OK status", zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("%w: rpc %s returned non-OK http status: %d",
			apperrors.ErrExternalServiceFailure, c.url, resp.StatusCode(),
		)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func (c *Client) roundTripWS(ctx context.Context, payload []byte) ([]byte, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url.String(), nil)
	if err != nil {
		c.logger.Debug("WSS dial failed", zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, c.contextError(ctxErr)
		}
		return nil, fmt.Errorf("%w: wss dial to %s failed: %v",
			apperrors.ErrExternalServiceFailure, c.url, err,
		)
	}
	defer conn.Close()

	timeout := c.effectiveTimeout(ctx)
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: no time left for request to %s", apperrors.ErrTimeout, c.url)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	_ = conn.SetReadDeadline(time.Now().Add(timeout))

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Debug("WSS write message failed", zap.Error(err))
		return nil, fmt.Errorf("%w: wss write to %s failed: %v",
			apperrors.ErrExternalServiceFailure, c.url, err,
		)
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.logger.Debug("WSS read message failed", zap.Error(err))
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: wss read from %s timed out after %v: %v",
				apperrors.ErrTimeout, c.url, timeout, err,
			)
		}
		return nil, fmt.Errorf("%w: wss read from %s failed: %v",
			apperrors.ErrExternalServiceFailure, c.url, err,
		)
	}

	return message, nil
}

func (c *Client) contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request to %s: %v", apperrors.ErrTimeout, c.url, err)
	}
	return fmt.Errorf("%w: request to %s: %v", apperrors.ErrExternalServiceFailure, c.url, err)
}

// decodeResponse validates the JSON-RPC envelope and unmarshals its result.
func (c *Client) decodeResponse(method string, body []byte, result any) error {
	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		c.logger.Debug("RPC returned invalid JSON", zap.String("method", method), zap.ByteString("body", body), zap.Error(err))
		return fmt.Errorf("%w: rpc %s returned invalid JSON response: %v",
			apperrors.ErrExternalServiceFailure, c.url, err,
		)
	}

	if rpcResp.Error != nil {
		c.logger.Debug("RPC returned JSON-RPC error",
			zap.String("method", method),
			zap.Int("errorCode", rpcResp.Error.Code),
			zap.String("errorMessage", rpcResp.Error.Message),
		)
		return fmt.Errorf("%w: %s on %s: %w", apperrors.ErrExternalServiceFailure, method, c.url, rpcResp.Error)
	}

	if rpcResp.Jsonrpc != "2.0" || rpcResp.Result == nil {
		c.logger.Debug("RPC returned invalid JSON-RPC structure", zap.String("method", method), zap.ByteString("body", body))
		return fmt.Errorf("%w: rpc %s returned invalid JSON-RPC structure",
			apperrors.ErrExternalServiceFailure, c.url,
		)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("%w: cannot decode %s result from %s: %v",
			apperrors.ErrExternalServiceFailure, method, c.url, err,
		)
	}
	return nil
}
