package sdk

import (
	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/layout"
	"github.com/schemagen/schemagen/pkg/phase"
)

// BaseEmitter renders the shared BaseAPIClient once per run (a global
// emitter, not per-model, unlike ClientEmitter and CoreQueryEmitter).
// Non-goal "arbitrary target stacks" keeps this to one HTTP transport
// shape: net/http with retry, auth-token injection, request-id
// propagation, and APIException wrapping.
type BaseEmitter struct {
	Layout *layout.Layout
}

// NewBase returns a BaseEmitter.
func NewBase(l *layout.Layout) *BaseEmitter {
	return &BaseEmitter{Layout: l}
}

// baseAPIClientSource is the BaseAPIClient template. The teacher's
// TypeScript-target SDK resolved its base URL from window.location.origin
// in a browser context; this generator targets Go throughout (pkg/layout's
// single-extension policy), so base-URL resolution instead walks the
// env-var priority order spec.md §4.5.6 names minus the browser branch,
// falling back to http://localhost:3000.
const baseAPIClientSource = `package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// APIException is the uniform error shape every BaseAPIClient call wraps
// a failed request into.
type APIException struct {
	ErrorCode string ` + "`json:\"error\"`" + `
	Message   string ` + "`json:\"message\"`" + `
	Status    int    ` + "`json:\"status\"`" + `
	RequestID string ` + "`json:\"requestId\"`" + `
}

func (e *APIException) Error() string {
	return fmt.Sprintf("%s (status=%d request=%s): %s", e.ErrorCode, e.Status, e.RequestID, e.Message)
}

// TokenSource supplies the bearer token for auth injection; it may hit
// the network (refresh flows), hence the context parameter.
type TokenSource func(ctx context.Context) (string, error)

// BaseAPIClient is the shared HTTP transport every per-model client is
// built on: retry, auth injection, request-id propagation.
type BaseAPIClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource
	MaxRetries int
}

// ResolveBaseURL applies the env-var priority order: API_URL, then
// SCHEMAGEN_API_URL, then http://localhost:3000.
func ResolveBaseURL() string {
	for _, key := range []string{"API_URL", "SCHEMAGEN_API_URL"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "http://localhost:3000"
}

// NewBaseAPIClient constructs a BaseAPIClient with a default 10s HTTP
// client and 3 retries.
func NewBaseAPIClient(baseURL string, token TokenSource) *BaseAPIClient {
	if baseURL == "" {
		baseURL = ResolveBaseURL()
	}
	return &BaseAPIClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Token:      token,
		MaxRetries: 3,
	}
}

// Do issues one request, retrying idempotent methods on transport error,
// and decodes the response body into out (nil to discard it).
func (c *BaseAPIClient) Do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = encoded
	}

	requestID := uuid.NewString()
	idempotent := method == "GET" || method == "DELETE"
	attempts := 1
	if idempotent {
		attempts = c.MaxRetries + 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", requestID)
		if c.Token != nil {
			token, err := c.Token(ctx)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			var apiErr APIException
			data, _ := io.ReadAll(resp.Body)
			if jsonErr := json.Unmarshal(data, &apiErr); jsonErr != nil {
				apiErr = APIException{ErrorCode: "unknown", Message: string(data), Status: resp.StatusCode, RequestID: requestID}
			}
			return &apiErr
		}

		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return lastErr
}

// realtimeEnvelope is the wire shape every channel message arrives in:
// a routing key plus the raw payload, decoded by the caller into its own
// update type.
type realtimeEnvelope struct {
	Channel string          ` + "`json:\"channel\"`" + `
	Payload json.RawMessage ` + "`json:\"payload\"`" + `
}

// RealtimeConn is a single WebSocket connection shared by every model's
// hook in a process; each hook subscribes to its own channel name over
// the same socket. Exactly-one subscription per channel is enforced by
// the generated hook, not by RealtimeConn itself, which only rejects a
// nil or closed connection.
type RealtimeConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	routes map[string][]chan<- json.RawMessage
}

// DialRealtimeConn opens the WebSocket connection the generated hooks
// subscribe over. wsURL is derived from ResolveBaseURL with the scheme
// swapped to ws/wss by the caller.
func DialRealtimeConn(ctx context.Context, wsURL string) (*RealtimeConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	rc := &RealtimeConn{conn: conn, routes: make(map[string][]chan<- json.RawMessage)}
	go rc.readLoop()
	return rc, nil
}

func (rc *RealtimeConn) readLoop() {
	for {
		_, data, err := rc.conn.ReadMessage()
		if err != nil {
			return
		}
		var env realtimeEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		rc.mu.Lock()
		subs := append([]chan<- json.RawMessage(nil), rc.routes[env.Channel]...)
		rc.mu.Unlock()
		for _, ch := range subs {
			select {
			case ch <- env.Payload:
			default:
			}
		}
	}
}

// Subscribe registers a raw-payload sink for channel and forwards decoded
// payloads into out until ctx is cancelled.
func (rc *RealtimeConn) Subscribe(ctx context.Context, channel string, out chan<- json.RawMessage) error {
	if rc == nil || rc.conn == nil {
		return fmt.Errorf("realtime: connection not established")
	}
	rc.mu.Lock()
	rc.routes[channel] = append(rc.routes[channel], out)
	rc.mu.Unlock()

	go func() {
		<-ctx.Done()
		rc.mu.Lock()
		defer rc.mu.Unlock()
		kept := rc.routes[channel][:0]
		for _, ch := range rc.routes[channel] {
			if ch != out {
				kept = append(kept, ch)
			}
		}
		rc.routes[channel] = kept
	}()
	return nil
}

// Close tears down the underlying connection.
func (rc *RealtimeConn) Close() error {
	if rc == nil || rc.conn == nil {
		return nil
	}
	return rc.conn.Close()
}

// wsURLFromBase swaps an http(s) base URL to its ws(s) equivalent.
func wsURLFromBase(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
`

// Emit implements phase.GlobalEmitFunc; it ignores ctx since the base
// client template is static, independent of the schema being generated.
func (e *BaseEmitter) Emit(ctx *phase.Context) ([]filemap.GeneratedFile, []ir.Diagnostic) {
	file := filemap.GeneratedFile{
		Path:     "gen/sdk/base." + e.Layout.Ext(),
		Contents: baseAPIClientSource,
		Category: "sdk-base",
	}
	return []filemap.GeneratedFile{file}, nil
}
