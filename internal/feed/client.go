// Package feed implements the session feed: discovery and authentication
// against the local game client, the websocket subscription carrying raw
// champ-select snapshots, and the request calls for applying draft actions.
package feed

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/draftbetter/assistant/internal/lcu"
)

// ErrNotConnected rejects request calls made before a subscription is
// established; no network traffic happens for them.
var ErrNotConnected = errors.New("not connected to game client")

const (
	requestTimeout = time.Second
	dialTimeout    = 5 * time.Second

	sessionPath = "/lol-champ-select/v1/session"

	wampSubscribe      = 5
	wampEvent          = 8
	champSelectWampKey = "OnJsonApiEvent_lol-champ-select_v1_session"
	gameflowWampKey    = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"
	champSelectURI     = "/lol-champ-select/v1/session"
	gameflowURI        = "/lol-gameflow/v1/gameflow-phase"
)

// Client talks to the game client's local API. The client presents a
// self-signed certificate, so verification is disabled for this loopback
// traffic only.
type Client struct {
	lockfilePath string
	log          *zap.Logger
	httpc        *http.Client
	dialc        *http.Client

	mu    sync.Mutex
	creds *Credentials
}

func NewClient(lockfilePath string, logger *zap.Logger) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return &Client{
		lockfilePath: lockfilePath,
		log:          logger,
		httpc:        &http.Client{Transport: transport, Timeout: requestTimeout},
		dialc:        &http.Client{Transport: transport},
	}
}

// Connect authenticates via the lockfile, dials the client's websocket, and
// subscribes to the champ-select and gameflow topics. The returned Conn's
// event channel closes when the socket dies.
func (c *Client) Connect(ctx context.Context) (*Conn, error) {
	creds, err := ReadLockfile(c.lockfilePath)
	if err != nil {
		return nil, fmt.Errorf("read lockfile: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	header := http.Header{}
	header.Set("Authorization", basicAuth(creds.Password))
	ws, _, err := websocket.Dial(dialCtx, fmt.Sprintf("wss://127.0.0.1:%d/", creds.Port), &websocket.DialOptions{
		HTTPClient: c.dialc,
		HTTPHeader: header,
	})
	if err != nil {
		return nil, fmt.Errorf("dial game client: %w", err)
	}

	for _, key := range []string{champSelectWampKey, gameflowWampKey} {
		frame, _ := json.Marshal([]any{wampSubscribe, key})
		if err := ws.Write(dialCtx, websocket.MessageText, frame); err != nil {
			_ = ws.Close(websocket.StatusInternalError, "subscribe failed")
			return nil, fmt.Errorf("subscribe %s: %w", key, err)
		}
	}

	c.setCredentials(&creds)

	conn := &Conn{
		ws:     ws,
		events: make(chan lcu.FeedEvent, 16),
		client: c,
	}
	go conn.readLoop(ctx)

	c.log.Info("subscribed to game client feed", zap.Int("port", creds.Port))
	return conn, nil
}

// Session fetches the current champ-select snapshot, resolving to nil when
// the client is unreachable or no session exists. An absent client is an
// expected steady state, not an error.
func (c *Client) Session(ctx context.Context) *lcu.ChampSelectSession {
	var s lcu.ChampSelectSession
	if err := c.request(ctx, http.MethodGet, sessionPath, nil, &s); err != nil {
		return nil
	}
	return &s
}

func (c *Client) setCredentials(creds *Credentials) {
	c.mu.Lock()
	c.creds = creds
	c.mu.Unlock()
}

func (c *Client) credentials() (Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return Credentials{}, ErrNotConnected
	}
	return *c.creds, nil
}

func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	url := fmt.Sprintf("https://127.0.0.1:%d%s", creds.Port, path)
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return err
	}
	req.SetBasicAuth("riot", creds.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("client api: %s %s: %s", method, path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func basicAuth(password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:"+password))
}

// Conn is one live feed subscription.
type Conn struct {
	ws        *websocket.Conn
	events    chan lcu.FeedEvent
	client    *Client
	closeOnce sync.Once
}

// Events delivers decoded feed events until the socket dies.
func (co *Conn) Events() <-chan lcu.FeedEvent { return co.events }

// Close shuts the socket down; closing an already-dead transport is fine.
func (co *Conn) Close() error {
	co.closeOnce.Do(func() {
		_ = co.ws.Close(websocket.StatusNormalClosure, "bye")
	})
	return nil
}

func (co *Conn) readLoop(ctx context.Context) {
	defer close(co.events)
	defer co.client.setCredentials(nil)

	for {
		_, data, err := co.ws.Read(ctx)
		if err != nil {
			return
		}
		ev, ok := parseWampEvent(data)
		if !ok {
			continue
		}
		select {
		case co.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// parseWampEvent decodes one websocket frame. Subscription events arrive as
// [8, "<key>", {"data": ..., "eventType": ..., "uri": ...}]; everything else
// (acks, keepalives) is skipped.
func parseWampEvent(data []byte) (lcu.FeedEvent, bool) {
	var frame []json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil || len(frame) < 3 {
		return lcu.FeedEvent{}, false
	}

	var opcode int
	if err := json.Unmarshal(frame[0], &opcode); err != nil || opcode != wampEvent {
		return lcu.FeedEvent{}, false
	}

	var payload struct {
		Data      json.RawMessage `json:"data"`
		EventType lcu.EventType   `json:"eventType"`
		URI       string          `json:"uri"`
	}
	if err := json.Unmarshal(frame[2], &payload); err != nil {
		return lcu.FeedEvent{}, false
	}

	switch payload.URI {
	case champSelectURI:
		ev := lcu.FeedEvent{Topic: lcu.TopicChampSelect, Type: payload.EventType}
		if payload.EventType != lcu.EventDelete {
			var s lcu.ChampSelectSession
			if err := json.Unmarshal(payload.Data, &s); err != nil {
				return lcu.FeedEvent{}, false
			}
			ev.Session = &s
		}
		return ev, true

	case gameflowURI:
		var phase lcu.GameflowPhase
		if err := json.Unmarshal(payload.Data, &phase); err != nil {
			return lcu.FeedEvent{}, false
		}
		return lcu.FeedEvent{Topic: lcu.TopicGameflow, Type: lcu.EventUpdate, Phase: phase}, true
	}

	return lcu.FeedEvent{}, false
}
