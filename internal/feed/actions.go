package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftbetter/assistant/internal/champselect"
	"github.com/draftbetter/assistant/internal/lcu"
)

var (
	// ErrNoSession means no champ-select session is active.
	ErrNoSession = errors.New("no active champ-select session")
	// ErrNoAction means the local seat has no actionable pick or ban.
	ErrNoAction = errors.New("no action available")
)

// Hover declares a champion on the local seat's current pick action without
// locking it.
func (c *Client) Hover(ctx context.Context, championID int) error {
	return c.applyAction(ctx, lcu.ActionPick, championID, false)
}

// LockIn selects and locks a champion on the local seat's current pick
// action.
func (c *Client) LockIn(ctx context.Context, championID int) error {
	return c.applyAction(ctx, lcu.ActionPick, championID, true)
}

// Ban selects and locks a champion on the local seat's current ban action.
func (c *Client) Ban(ctx context.Context, championID int) error {
	return c.applyAction(ctx, lcu.ActionBan, championID, true)
}

// applyAction is the single routine behind hover, lock, and ban. The
// combined PATCH with completed=true is occasionally rejected by the client;
// in that case the action is retried once as two separate steps (select,
// then complete) and then the failure is reported to the caller with no
// further retries.
func (c *Client) applyAction(ctx context.Context, kind lcu.ActionKind, championID int, lock bool) error {
	if _, err := c.credentials(); err != nil {
		return err
	}

	session := c.Session(ctx)
	if session == nil || session.LocalPlayerCellID == nil {
		return ErrNoSession
	}

	actionID, ok := champselect.FindCurrentAction(session, *session.LocalPlayerCellID, kind)
	if !ok {
		return fmt.Errorf("%w: %s for seat %d", ErrNoAction, kind, *session.LocalPlayerCellID)
	}

	path := fmt.Sprintf("/lol-champ-select/v1/session/actions/%d", actionID)
	body := map[string]any{"championId": championID}
	if lock {
		body["completed"] = true
	}

	err := c.request(ctx, http.MethodPatch, path, body, nil)
	if err == nil {
		return nil
	}
	if !lock {
		return fmt.Errorf("apply %s: %w", kind, err)
	}

	c.log.Warn("combined select+lock rejected, retrying as two steps",
		zap.String("kind", string(kind)),
		zap.Int("championId", championID),
		zap.Error(err))

	if err := c.request(ctx, http.MethodPatch, path, map[string]any{"championId": championID}, nil); err != nil {
		return fmt.Errorf("apply %s: %w", kind, err)
	}
	if err := c.request(ctx, http.MethodPost, path+"/complete", nil, nil); err != nil {
		return fmt.Errorf("complete %s: %w", kind, err)
	}
	return nil
}
