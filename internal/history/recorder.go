// Package history records finalized drafts to Postgres so past lobbies can
// be reviewed after the fact. Recording is optional; the assistant runs
// fully without a database.
package history

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/draftbetter/assistant/internal/champselect"
	"github.com/draftbetter/assistant/internal/supervisor"
)

// DraftRecord is one finalized draft. Ban lists are stored comma-joined;
// they are small, ordered, and only ever read back whole.
type DraftRecord struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	ChampionID    int
	ChampionName  string
	Role          string
	PracticeMode  bool
	MyTeamBans    string
	TheirTeamBans string
	GameStartedAt *time.Time
	GameEndedAt   *time.Time
}

// Recorder persists one record per champ-select session, then stamps it
// when the game actually starts and ends.
type Recorder struct {
	db   *gorm.DB
	log  *zap.Logger
	name func(championID int) string

	mu       sync.Mutex
	recorded bool
	openID   uint
}

// Open connects to Postgres and migrates the schema. name resolves champion
// ids to display names and may return "" when the catalog is unavailable.
func Open(dsn string, logger *zap.Logger, name func(int) string) (*Recorder, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	if err := db.AutoMigrate(&DraftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate history store: %w", err)
	}
	return &Recorder{db: db, log: logger, name: name}, nil
}

// HandleEvent consumes supervisor notifications. The first finalization
// view of a session inserts a record; the session-ended event re-arms the
// recorder for the next lobby.
func (r *Recorder) HandleEvent(ev supervisor.Event) {
	switch ev.Kind {
	case supervisor.EventViewUpdated:
		r.onView(ev.View)
	case supervisor.EventSessionEnded:
		r.mu.Lock()
		r.recorded = false
		r.mu.Unlock()
	}
}

func (r *Recorder) onView(v *champselect.View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recorded {
		return
	}
	rec, ok := buildRecord(v, r.name)
	if !ok {
		return
	}

	if err := r.db.Create(&rec).Error; err != nil {
		r.log.Error("record draft", zap.Error(err))
		return
	}
	r.recorded = true
	r.openID = rec.ID
	r.log.Info("draft recorded",
		zap.Int("championId", rec.ChampionID),
		zap.String("role", rec.Role))
}

// MarkGameStart stamps the open record when the game launches.
func (r *Recorder) MarkGameStart() {
	r.stamp("game_started_at")
}

// MarkGameEnd stamps the open record when the game finishes and closes it.
func (r *Recorder) MarkGameEnd() {
	r.stamp("game_ended_at")
	r.mu.Lock()
	r.openID = 0
	r.mu.Unlock()
}

func (r *Recorder) stamp(column string) {
	r.mu.Lock()
	id := r.openID
	r.mu.Unlock()
	if id == 0 {
		return
	}
	if err := r.db.Model(&DraftRecord{}).Where("id = ?", id).Update(column, time.Now()).Error; err != nil {
		r.log.Error("stamp draft record", zap.String("column", column), zap.Error(err))
	}
}

// buildRecord turns a finalized view into a record. It reports false for
// non-finalization views and for views with no resolved local champion.
func buildRecord(v *champselect.View, name func(int) string) (DraftRecord, bool) {
	if v == nil || v.Phase != champselect.PhaseFinalization {
		return DraftRecord{}, false
	}

	championID := 0
	role := champselect.RoleNone
	for _, seat := range v.MyTeam {
		if seat.IsLocalPlayer {
			championID = seat.ChampionID
			role = seat.Role
			break
		}
	}
	if championID == 0 {
		return DraftRecord{}, false
	}

	return DraftRecord{
		ChampionID:    championID,
		ChampionName:  name(championID),
		Role:          string(role),
		PracticeMode:  v.PracticeMode,
		MyTeamBans:    joinIDs(v.MyTeamBans),
		TheirTeamBans: joinIDs(v.TheirTeamBans),
	}, true
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
