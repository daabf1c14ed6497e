package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/draftbetter/assistant/internal/champselect"
	"github.com/draftbetter/assistant/internal/datadragon"
	"github.com/draftbetter/assistant/internal/feed"
	"github.com/draftbetter/assistant/internal/lcu"
	"github.com/draftbetter/assistant/internal/supervisor"
)

type fakeState struct {
	snap supervisor.Snapshot
}

func (f *fakeState) State() supervisor.Snapshot { return f.snap }

func (f *fakeState) Subscribe() (<-chan supervisor.Event, func()) {
	ch := make(chan supervisor.Event)
	close(ch)
	return ch, func() {}
}

type fakeActions struct {
	err   error
	calls []string
	pages []feed.RunePage
}

func (f *fakeActions) Hover(ctx context.Context, id int) error {
	f.calls = append(f.calls, "hover")
	return f.err
}

func (f *fakeActions) LockIn(ctx context.Context, id int) error {
	f.calls = append(f.calls, "lock")
	return f.err
}

func (f *fakeActions) Ban(ctx context.Context, id int) error {
	f.calls = append(f.calls, "ban")
	return f.err
}

func (f *fakeActions) RunePages(ctx context.Context) ([]feed.RunePage, error) {
	f.calls = append(f.calls, "runePages")
	return f.pages, f.err
}

func (f *fakeActions) CurrentRunePage(ctx context.Context) (*feed.RunePage, error) {
	f.calls = append(f.calls, "currentRunePage")
	if f.err != nil {
		return nil, f.err
	}
	return &feed.RunePage{ID: 7, Name: "DraftBetter", Current: true}, nil
}

func (f *fakeActions) SetRunePage(ctx context.Context, page feed.RunePage) error {
	f.calls = append(f.calls, "setRunePage:"+page.Name)
	return f.err
}

func (f *fakeActions) DeleteRunePage(ctx context.Context, pageID int) error {
	f.calls = append(f.calls, "deleteRunePage:"+strconv.Itoa(pageID))
	return f.err
}

func (f *fakeActions) SetSummonerSpells(ctx context.Context, spell1ID, spell2ID int) error {
	f.calls = append(f.calls, "spells")
	return f.err
}

func newTestServer(state *fakeState, actions *fakeActions) http.Handler {
	champs := map[int]datadragon.Champion{
		266: {ID: 266, Name: "Aatrox"},
		157: {ID: 157, Name: "Yasuo"},
		103: {ID: 103, Name: "Ahri"},
	}
	return SetupRoutes(NewServer(state, actions, champs, zap.NewNop()))
}

func TestHandleView(t *testing.T) {
	view := &champselect.View{Phase: champselect.PhasePicking, LocalCellID: 2}
	state := &fakeState{snap: supervisor.Snapshot{
		Status: supervisor.StatusConnected,
		Phase:  champselect.PhasePicking,
		View:   view,
	}}
	h := newTestServer(state, &fakeActions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got champselect.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, champselect.PhasePicking, got.Phase)
	require.Equal(t, 2, got.LocalCellID)
}

func TestHandleView_NoSession(t *testing.T) {
	h := newTestServer(&fakeState{}, &fakeActions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	state := &fakeState{snap: supervisor.Snapshot{
		Status:        supervisor.StatusConnected,
		GameflowPhase: lcu.GameflowChampSelect,
	}}
	h := newTestServer(state, &fakeActions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "connected", got["status"])
	require.Equal(t, "ChampSelect", got["gameflowPhase"])
}

func TestHandleAction(t *testing.T) {
	actions := &fakeActions{}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/lock",
		strings.NewReader(`{"champion_id": 266}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"lock"}, actions.calls)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
}

func TestHandleAction_NotConnected(t *testing.T) {
	actions := &fakeActions{err: feed.ErrNotConnected}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/ban",
		strings.NewReader(`{"champion_id": 53}`)))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "not connected")
}

func TestHandleAction_BadBody(t *testing.T) {
	actions := &fakeActions{}
	h := newTestServer(&fakeState{}, actions)

	for _, body := range []string{``, `{}`, `{"champion_id": 0}`, `nope`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/hover", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
	require.Empty(t, actions.calls)
}

func TestHandleChampions_SortedByID(t *testing.T) {
	h := newTestServer(&fakeState{}, &fakeActions{})

	// Map iteration order varies; the endpoint must not.
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/champions", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got []datadragon.Champion
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, []int{103, 157, 266}, []int{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestHandleRunePages(t *testing.T) {
	actions := &fakeActions{pages: []feed.RunePage{{ID: 7, Name: "DraftBetter"}}}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []feed.RunePage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "DraftBetter", got[0].Name)
}

func TestHandleSetRunePage(t *testing.T) {
	actions := &fakeActions{}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runes",
		strings.NewReader(`{"name": "DraftBetter", "primaryStyleId": 8100, "subStyleId": 8300, "selectedPerkIds": [8112, 8143]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"setRunePage:DraftBetter"}, actions.calls)
}

func TestHandleSetRunePage_BadBody(t *testing.T) {
	actions := &fakeActions{}
	h := newTestServer(&fakeState{}, actions)

	for _, body := range []string{``, `{}`, `{"primaryStyleId": 8100}`, `junk`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runes", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
	require.Empty(t, actions.calls)
}

func TestHandleDeleteRunePage(t *testing.T) {
	actions := &fakeActions{}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/runes/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"deleteRunePage:42"}, actions.calls)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/runes/nope", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSpells(t *testing.T) {
	actions := &fakeActions{}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/spells",
		strings.NewReader(`{"spell1_id": 4, "spell2_id": 14}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"spells"}, actions.calls)
}

func TestHandleSpells_NoSession(t *testing.T) {
	actions := &fakeActions{err: feed.ErrNoSession}
	h := newTestServer(&fakeState{}, actions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/spells",
		strings.NewReader(`{"spell1_id": 4, "spell2_id": 14}`)))
	require.Equal(t, http.StatusConflict, rec.Code)
}
