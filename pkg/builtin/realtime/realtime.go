// Package realtime implements the built-in "realtime" feature plugin
// (SPEC_FULL.md §6): a server-side WebSocket broadcast hub plus a
// /realtime upgrade route, emitted for every model whose analysis reports
// analyzer.Capabilities.SupportsRealtime (driven by the schema's
// @@realtime(broadcast: [...]) models). This is the server-side
// counterpart to the already-built client pkg/emit/sdk/base.go's
// RealtimeConn/Subscribe — the envelope shape ({channel, payload}) mirrors
// that client exactly so generated hooks need no server-specific
// decoding. Grounded on gorilla/websocket usage conventions already
// established in that client (Upgrader mirrors DefaultDialer, same
// read/write-pump split).
package realtime

import (
	"context"
	"strings"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// Plugin is the realtime feature plugin.
type Plugin struct {
	plugin.Base
}

// New returns a realtime Plugin.
func New() *Plugin {
	return &Plugin{Base: plugin.Base{IDValue: "realtime", VersionValue: "0.1.0", PriorityValue: 15}}
}

func init() {
	if err := plugin.RegisterGlobal(New()); err != nil {
		panic(err)
	}
}

func (p *Plugin) Requirements() plugin.Requirements { return plugin.Requirements{} }

// Validate is a no-op: a schema with no @@realtime models simply yields an
// empty broadcast channel set in Generate, not an error.
func (p *Plugin) Validate(_ context.Context, _ plugin.RequestContext) (plugin.ValidateResult, error) {
	return plugin.ValidateResult{}, nil
}

func (p *Plugin) Generate(_ context.Context, rc plugin.RequestContext) (plugin.Output, error) {
	var channels []string
	for _, m := range rc.Schema.Models {
		if len(m.RealtimeBroadcast) > 0 {
			channels = append(channels, m.RealtimeBroadcast...)
		}
	}
	if len(channels) == 0 {
		return plugin.Output{}, nil
	}

	return plugin.Output{
		Files: []filemap.GeneratedFile{{
			Path:     "gen/realtime/hub.go",
			Contents: renderHub(),
			Category: "plugin:realtime",
		}, {
			Path:     "gen/realtime/handler.go",
			Contents: renderHandler(channels),
			Category: "plugin:realtime",
		}},
		Routes: []plugin.RouteSpec{
			{Method: "GET", Path: "/realtime", HandlerName: "realtime.Upgrade"},
		},
	}, nil
}

func (p *Plugin) HealthCheck(_ context.Context, rc plugin.RequestContext) (plugin.HealthSection, bool) {
	count := 0
	for _, m := range rc.Schema.Models {
		count += len(m.RealtimeBroadcast)
	}
	status := "ok"
	if count == 0 {
		status = "idle"
	}
	return plugin.HealthSection{Name: "realtime", Status: status}, true
}

func renderHub() string {
	return `package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// envelope is the wire shape every broadcast is wrapped in; it matches
// the client SDK's realtimeEnvelope exactly.
type envelope struct {
	Channel string          ` + "`json:\"channel\"`" + `
	Payload json.RawMessage ` + "`json:\"payload\"`" + `
}

// Hub fans a Broadcast out to every subscriber currently connected on the
// given channel. One process-wide Hub is shared by every upgraded
// connection.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[*websocket.Conn]bool
}

var hub = &Hub{subscribers: make(map[string]map[*websocket.Conn]bool)}

func (h *Hub) subscribe(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[channel][conn] = true
}

func (h *Hub) unsubscribeAll(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, conns := range h.subscribers {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, channel)
		}
	}
}

// Broadcast marshals payload and writes it to every connection subscribed
// to channel. Errors writing to an individual connection are swallowed;
// that connection's own read loop will observe the close and clean up.
func Broadcast(channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := envelope{Channel: channel, Payload: data}
	msg, err := json.Marshal(env)
	if err != nil {
		return err
	}

	hub.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(hub.subscribers[channel]))
	for c := range hub.subscribers[channel] {
		conns = append(conns, c)
	}
	hub.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteMessage(websocket.TextMessage, msg)
	}
	return nil
}
`
}

func renderHandler(channels []string) string {
	quoted := make([]string, len(channels))
	for i, c := range channels {
		quoted[i] = `"` + c + `"`
	}
	return `package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// knownChannels lists every channel the schema's @@realtime(broadcast)
// models declare; a subscribe request for any other name is rejected.
var knownChannels = map[string]bool{
` + channelMapBody(quoted) + `}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type subscribeRequest struct {
	Channel string ` + "`json:\"channel\"`" + `
}

// Upgrade promotes the connection to a WebSocket and, until the client
// disconnects, subscribes it to the channel named in each subscribe
// message it reads; unknown channels are ignored.
func Upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	defer hub.unsubscribeAll(conn)

	for {
		var req subscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if knownChannels[req.Channel] {
			hub.subscribe(req.Channel, conn)
		}
	}
}
`
}

func channelMapBody(quoted []string) string {
	var b strings.Builder
	for _, q := range quoted {
		b.WriteString("\t")
		b.WriteString(q)
		b.WriteString(": true,\n")
	}
	return b.String()
}
