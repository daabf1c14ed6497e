package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/draftbetter/assistant/internal/lcu"
)

// fakeLCU serves a champ-select session and records action calls over TLS,
// the way the real client does on loopback.
type fakeLCU struct {
	t *testing.T

	mu            sync.Mutex
	calls         []string
	rejectCombine bool
}

func (f *fakeLCU) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /lol-champ-select/v1/session", func(w http.ResponseWriter, r *http.Request) {
		local := 2
		session := lcu.ChampSelectSession{
			LocalPlayerCellID: &local,
			MyTeam:            []lcu.Member{{CellID: 2}},
			Actions: [][]lcu.Action{
				{
					{ID: 40, ActorCellID: 2, Type: lcu.ActionBan, Completed: true},
				},
				{
					{ID: 41, ActorCellID: 2, Type: lcu.ActionPick, IsInProgress: true},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(session)
	})

	mux.HandleFunc("PATCH /lol-champ-select/v1/session/actions/41", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))

		_, combined := body["completed"]
		f.record("PATCH combined=" + strconv.FormatBool(combined))

		if combined && f.rejecting() {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /lol-champ-select/v1/session/actions/41/complete", func(w http.ResponseWriter, r *http.Request) {
		f.record("POST complete")
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func (f *fakeLCU) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeLCU) rejecting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejectCombine
}

func (f *fakeLCU) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestClient(t *testing.T, fake *fakeLCU) *Client {
	srv := httptest.NewTLSServer(fake.handler())
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	c := NewClient("", zap.NewNop())
	c.setCredentials(&Credentials{Port: port, Password: "pw"})
	return c
}

func TestHover_PatchesWithoutCompleting(t *testing.T) {
	fake := &fakeLCU{t: t}
	c := newTestClient(t, fake)

	require.NoError(t, c.Hover(context.Background(), 103))
	require.Equal(t, []string{"PATCH combined=false"}, fake.recorded())
}

func TestLockIn_CombinedPatch(t *testing.T) {
	fake := &fakeLCU{t: t}
	c := newTestClient(t, fake)

	require.NoError(t, c.LockIn(context.Background(), 103))
	require.Equal(t, []string{"PATCH combined=true"}, fake.recorded())
}

func TestLockIn_FallsBackToTwoSteps(t *testing.T) {
	fake := &fakeLCU{t: t, rejectCombine: true}
	c := newTestClient(t, fake)

	require.NoError(t, c.LockIn(context.Background(), 103))
	require.Equal(t, []string{
		"PATCH combined=true",
		"PATCH combined=false",
		"POST complete",
	}, fake.recorded())
}

func TestApplyAction_RejectsWhenDisconnected(t *testing.T) {
	c := NewClient("", zap.NewNop())

	err := c.LockIn(context.Background(), 103)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestBan_TargetsBanAction(t *testing.T) {
	// The fake exposes a completed ban and an in-progress pick, so a ban
	// request has nothing to act on.
	fake := &fakeLCU{t: t}
	c := newTestClient(t, fake)

	err := c.Ban(context.Background(), 53)
	require.ErrorIs(t, err, ErrNoAction)
	require.Empty(t, fake.recorded())
}
