package feed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/draftbetter/assistant/internal/lcu"
)

func TestParseWampEvent(t *testing.T) {
	t.Run("champ select update", func(t *testing.T) {
		frame := []byte(`[8, "OnJsonApiEvent_lol-champ-select_v1_session", {
			"uri": "/lol-champ-select/v1/session",
			"eventType": "Update",
			"data": {"localPlayerCellId": 3, "myTeam": [{"cellId": 3, "championId": 266}]}
		}]`)

		ev, ok := parseWampEvent(frame)
		require.True(t, ok)
		require.Equal(t, lcu.TopicChampSelect, ev.Topic)
		require.Equal(t, lcu.EventUpdate, ev.Type)
		require.NotNil(t, ev.Session)
		require.NotNil(t, ev.Session.LocalPlayerCellID)
		require.Equal(t, 3, *ev.Session.LocalPlayerCellID)
		require.Equal(t, 266, ev.Session.MyTeam[0].ChampionID)
	})

	t.Run("champ select delete carries no session", func(t *testing.T) {
		frame := []byte(`[8, "OnJsonApiEvent_lol-champ-select_v1_session", {
			"uri": "/lol-champ-select/v1/session",
			"eventType": "Delete",
			"data": null
		}]`)

		ev, ok := parseWampEvent(frame)
		require.True(t, ok)
		require.Equal(t, lcu.EventDelete, ev.Type)
		require.Nil(t, ev.Session)
	})

	t.Run("gameflow phase", func(t *testing.T) {
		frame := []byte(`[8, "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase", {
			"uri": "/lol-gameflow/v1/gameflow-phase",
			"eventType": "Update",
			"data": "InProgress"
		}]`)

		ev, ok := parseWampEvent(frame)
		require.True(t, ok)
		require.Equal(t, lcu.TopicGameflow, ev.Topic)
		require.Equal(t, lcu.GameflowInProgress, ev.Phase)
	})

	t.Run("skips acks and junk", func(t *testing.T) {
		for _, frame := range [][]byte{
			[]byte(`[]`),
			[]byte(`[5, "OnJsonApiEvent"]`),
			[]byte(`not json`),
			[]byte(`[8, "key", {"uri": "/some/other/topic", "data": {}}]`),
		} {
			if _, ok := parseWampEvent(frame); ok {
				t.Fatalf("frame %s should not parse as an event", frame)
			}
		}
	})
}
