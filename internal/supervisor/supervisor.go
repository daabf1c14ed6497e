// Package supervisor owns the lifecycle of the session feed connection:
// polling for the game client, reconnecting, and turning raw feed events
// into interpreted champ-select views for subscribers. All mutable state
// lives on a single goroutine; callers talk to it through typed messages.
package supervisor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/draftbetter/assistant/internal/champselect"
	"github.com/draftbetter/assistant/internal/lcu"
)

type msg interface{ isMsg() }

type subscribeMsg struct {
	reply chan subscription
}

type unsubscribeMsg struct{ id int }

type getStateMsg struct {
	reply chan Snapshot
}

type attemptResultMsg struct {
	conn Conn
	err  error
}

type feedDeliveryMsg struct{ ev lcu.FeedEvent }

type connLostMsg struct{}

func (subscribeMsg) isMsg()     {}
func (unsubscribeMsg) isMsg()   {}
func (getStateMsg) isMsg()      {}
func (attemptResultMsg) isMsg() {}
func (feedDeliveryMsg) isMsg()  {}
func (connLostMsg) isMsg()      {}

type subscription struct {
	id int
	ch chan Event
}

// Supervisor watches for the game client in the background and keeps the
// current interpreted view available. Construct with New, then Start; the
// caller owns the lifecycle.
type Supervisor struct {
	feed       Feed
	log        *zap.Logger
	opts       Options
	retryEvery time.Duration

	inbox chan msg
	done  chan struct{}

	startMu sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc

	// Everything below is owned by the loop goroutine.
	status      Status
	conn        Conn
	attempting  bool
	attempts    int
	gameflow    lcu.GameflowPhase
	view        *champselect.View
	phase       champselect.Phase
	subscribers map[int]chan Event
	nextSubID   int
}

func New(feed Feed, logger *zap.Logger, opts Options) *Supervisor {
	retry := opts.RetryEvery
	if retry <= 0 {
		retry = defaultRetryEvery
	}
	return &Supervisor{
		feed:        feed,
		log:         logger,
		opts:        opts,
		retryEvery:  retry,
		inbox:       make(chan msg, 64),
		done:        make(chan struct{}),
		status:      StatusDisconnected,
		gameflow:    lcu.GameflowNone,
		phase:       champselect.PhasePlanning,
		subscribers: make(map[int]chan Event),
	}
}

// Start begins watching for the game client. Calling it twice is a no-op.
func (s *Supervisor) Start(ctx context.Context) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	go s.loop()
}

// Stop halts the retry timer, best-effort closes the transport, closes all
// subscriber channels, and waits for the loop to exit. Safe to call more
// than once.
func (s *Supervisor) Stop() {
	s.startMu.Lock()
	if !s.started {
		s.startMu.Unlock()
		return
	}
	cancel := s.cancel
	s.startMu.Unlock()

	cancel()
	<-s.done
}

// Subscribe registers for supervisor events. The returned cancel func is
// idempotent and safe to call after the supervisor has stopped. Slow
// subscribers are dropped rather than allowed to stall the loop.
func (s *Supervisor) Subscribe() (<-chan Event, func()) {
	reply := make(chan subscription, 1)
	select {
	case s.inbox <- subscribeMsg{reply: reply}:
	case <-s.done:
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	select {
	case sub := <-reply:
		var once sync.Once
		cancel := func() {
			once.Do(func() {
				select {
				case s.inbox <- unsubscribeMsg{id: sub.id}:
				case <-s.done:
				}
			})
		}
		return sub.ch, cancel
	case <-s.done:
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}
}

// State answers the synchronous queries available between events.
func (s *Supervisor) State() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case s.inbox <- getStateMsg{reply: reply}:
	case <-s.done:
		return Snapshot{Status: StatusDisconnected, GameflowPhase: lcu.GameflowNone, Phase: champselect.PhasePlanning}
	}
	select {
	case snap := <-reply:
		return snap
	case <-s.done:
		return Snapshot{Status: StatusDisconnected, GameflowPhase: lcu.GameflowNone, Phase: champselect.PhasePlanning}
	}
}

// Status reports the current connection status.
func (s *Supervisor) Status() Status { return s.State().Status }

// CurrentView returns the last interpreted view, or nil when no session is
// active.
func (s *Supervisor) CurrentView() *champselect.View { return s.State().View }

// CurrentPhase returns the current champ-select phase.
func (s *Supervisor) CurrentPhase() champselect.Phase { return s.State().Phase }

func (s *Supervisor) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.retryEvery)
	defer ticker.Stop()

	s.log.Info("watching for game client in background")
	s.tryConnect()

	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case <-ticker.C:
			if s.status == StatusDisconnected {
				s.tryConnect()
			}

		case m := <-s.inbox:
			switch msg := m.(type) {
			case subscribeMsg:
				id := s.nextSubID
				s.nextSubID++
				ch := make(chan Event, 8)
				s.subscribers[id] = ch
				msg.reply <- subscription{id: id, ch: ch}

			case unsubscribeMsg:
				if ch, ok := s.subscribers[msg.id]; ok {
					close(ch)
					delete(s.subscribers, msg.id)
				}

			case getStateMsg:
				msg.reply <- Snapshot{
					Status:        s.status,
					GameflowPhase: s.gameflow,
					Phase:         s.phase,
					View:          s.view,
				}

			case attemptResultMsg:
				s.handleAttemptResult(msg)

			case feedDeliveryMsg:
				s.handleFeedEvent(msg.ev)

			case connLostMsg:
				s.dropConn()
			}
		}
	}
}

func (s *Supervisor) tryConnect() {
	if s.attempting {
		return
	}
	s.attempting = true
	s.attempts++

	go func() {
		conn, err := s.feed.Connect(s.ctx)
		select {
		case s.inbox <- attemptResultMsg{conn: conn, err: err}:
		case <-s.ctx.Done():
			if conn != nil {
				_ = conn.Close()
			}
		}
	}()
}

func (s *Supervisor) handleAttemptResult(res attemptResultMsg) {
	s.attempting = false

	if res.err != nil {
		// An absent client is the expected steady state; log the first
		// miss and then roughly once every two minutes.
		if s.attempts == 1 || s.attempts%12 == 0 {
			s.log.Info("game client not running, will keep trying", zap.Int("attempts", s.attempts))
		}
		s.setStatus(StatusDisconnected)
		return
	}

	s.conn = res.conn
	s.attempts = 0
	s.setStatus(StatusConnected)

	go s.pump(res.conn)
}

// pump forwards feed events onto the loop's inbox until the connection dies.
func (s *Supervisor) pump(conn Conn) {
	for ev := range conn.Events() {
		select {
		case s.inbox <- feedDeliveryMsg{ev: ev}:
		case <-s.ctx.Done():
			return
		}
	}
	select {
	case s.inbox <- connLostMsg{}:
	case <-s.ctx.Done():
	}
}

func (s *Supervisor) handleFeedEvent(ev lcu.FeedEvent) {
	switch ev.Topic {
	case lcu.TopicChampSelect:
		if ev.Type == lcu.EventDelete {
			s.view = nil
			s.phase = champselect.PhasePlanning
			s.broadcast(Event{Kind: EventSessionEnded})
			return
		}
		v := champselect.Normalize(ev.Session)
		s.view = &v
		s.phase = v.Phase
		s.broadcast(Event{Kind: EventViewUpdated, View: &v})

	case lcu.TopicGameflow:
		s.handleGameflow(ev.Phase)
	}
}

func (s *Supervisor) handleGameflow(phase lcu.GameflowPhase) {
	prev := s.gameflow
	s.gameflow = phase

	s.log.Debug("gameflow phase",
		zap.String("from", string(prev)),
		zap.String("to", string(phase)))

	s.broadcast(Event{Kind: EventGameflowChanged, GameflowPhase: phase})

	if phase.InGame() && !prev.InGame() {
		s.log.Info("game started")
		if s.opts.OnGameStart != nil {
			s.opts.OnGameStart()
		}
	}
	if phase.Ended() && prev.InGame() {
		s.log.Info("game ended")
		if s.opts.OnGameEnd != nil {
			s.opts.OnGameEnd()
		}
	}
}

func (s *Supervisor) dropConn() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.setStatus(StatusDisconnected)
}

func (s *Supervisor) setStatus(status Status) {
	if s.status == status {
		return
	}
	prev := s.status
	s.status = status

	if status == StatusConnected {
		s.log.Info("connected to game client")
	} else if prev == StatusConnected {
		s.log.Info("disconnected from game client")
	}

	s.broadcast(Event{Kind: EventStatusChanged, Status: status})
}

func (s *Supervisor) broadcast(ev Event) {
	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Subscriber is slow or gone; drop it.
			close(ch)
			delete(s.subscribers, id)
		}
	}
}

func (s *Supervisor) shutdown() {
	if s.conn != nil {
		// The transport may already be gone; that is fine.
		_ = s.conn.Close()
		s.conn = nil
	}
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.status = StatusDisconnected
}
