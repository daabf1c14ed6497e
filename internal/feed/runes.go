package feed

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// defaultRunePageName marks the page this assistant owns; SetRunePage
// replaces a same-named page instead of piling new ones onto the account.
const defaultRunePageName = "DraftBetter"

const (
	runePagesPath   = "/lol-perks/v1/pages"
	currentPagePath = "/lol-perks/v1/currentpage"
	mySelectionPath = "/lol-champ-select/v1/session/my-selection"
)

// RunePage is one rune page as the client stores it. ID is assigned by the
// client and zero on input.
type RunePage struct {
	ID              int    `json:"id,omitempty"`
	Name            string `json:"name"`
	PrimaryStyleID  int    `json:"primaryStyleId"`
	SubStyleID      int    `json:"subStyleId"`
	SelectedPerkIDs []int  `json:"selectedPerkIds"`
	Current         bool   `json:"current"`
}

// RunePages lists the account's rune pages.
func (c *Client) RunePages(ctx context.Context) ([]RunePage, error) {
	var pages []RunePage
	if err := c.request(ctx, http.MethodGet, runePagesPath, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// CurrentRunePage returns the active rune page.
func (c *Client) CurrentRunePage(ctx context.Context) (*RunePage, error) {
	var page RunePage
	if err := c.request(ctx, http.MethodGet, currentPagePath, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetRunePage installs a rune page and makes it current. A previous page
// with the same name is deleted first, so repeated calls update in place.
func (c *Client) SetRunePage(ctx context.Context, page RunePage) error {
	if _, err := c.credentials(); err != nil {
		return err
	}
	if page.Name == "" {
		page.Name = defaultRunePageName
	}

	pages, err := c.RunePages(ctx)
	if err != nil {
		return fmt.Errorf("list rune pages: %w", err)
	}
	for _, p := range pages {
		if p.Name == page.Name && p.ID != 0 {
			if err := c.DeleteRunePage(ctx, p.ID); err != nil {
				c.log.Warn("replace rune page: delete failed",
					zap.Int("pageId", p.ID), zap.Error(err))
			}
			break
		}
	}

	page.ID = 0
	page.Current = true
	if err := c.request(ctx, http.MethodPost, runePagesPath, page, nil); err != nil {
		return fmt.Errorf("create rune page: %w", err)
	}
	return nil
}

// DeleteRunePage removes a rune page by id.
func (c *Client) DeleteRunePage(ctx context.Context, pageID int) error {
	path := fmt.Sprintf("%s/%d", runePagesPath, pageID)
	if err := c.request(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete rune page %d: %w", pageID, err)
	}
	return nil
}

// SetSummonerSpells assigns both summoner spells on the local seat's
// current selection. Requires an active champ-select session.
func (c *Client) SetSummonerSpells(ctx context.Context, spell1ID, spell2ID int) error {
	if _, err := c.credentials(); err != nil {
		return err
	}
	if session := c.Session(ctx); session == nil {
		return ErrNoSession
	}

	body := map[string]any{"spell1Id": spell1ID, "spell2Id": spell2ID}
	if err := c.request(ctx, http.MethodPatch, mySelectionPath, body, nil); err != nil {
		return fmt.Errorf("set summoner spells: %w", err)
	}
	return nil
}
