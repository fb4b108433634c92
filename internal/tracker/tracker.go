// Package tracker is the request boundary of levelup: every operation reads
// the current records, runs the engine and writes the result back inside one
// store transaction.
package tracker

import (
	"io"
	"log/slog"
	"time"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/export"
	"github.com/sadopc/levelup/internal/store"
)

type Tracker struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
}

type Option func(*Tracker)

// WithLogger sets the logger used for mutation records.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func New(s *store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckIn records today's check-in. A repeat on the same UTC day reports
// Changed=false and leaves the streak alone.
func (t *Tracker) CheckIn() (engine.CheckInResult, error) {
	var res engine.CheckInResult
	err := t.store.WithTx(func(tx *store.Store) error {
		state, err := tx.GetAppState()
		if err != nil {
			return err
		}
		res, err = engine.CheckIn(state, t.now())
		if err != nil {
			return err
		}
		if !res.Changed {
			return nil
		}
		return tx.SaveAppState(res.State)
	})
	if err != nil {
		return engine.CheckInResult{}, err
	}
	t.log.Info("check in", "op", "checkin", "streak", res.State.Streak, "changed", res.Changed)
	return res, nil
}

// Stats is the dashboard summary.
type Stats struct {
	TotalXP        int
	Level          engine.LevelInfo
	Badges         []engine.Badge
	NextBadge      *engine.Badge
	Streak         int
	CheckedInToday bool

	QuestsDone  int
	QuestsTotal int
	Books       map[engine.BookStatus]int
	Courses     map[engine.CourseStatus]int

	PagesToday int
	UnitsToday int
	PageGoal   int
	UnitGoal   int
}

func (t *Tracker) TotalXP() (int, error) {
	questXP, err := t.store.DoneQuestXP()
	if err != nil {
		return 0, err
	}
	progressXP, err := t.store.ProgressXP()
	if err != nil {
		return 0, err
	}
	return questXP + progressXP, nil
}

func (t *Tracker) Stats() (Stats, error) {
	now := t.now()
	total, err := t.TotalXP()
	if err != nil {
		return Stats{}, err
	}
	state, err := t.store.GetAppState()
	if err != nil {
		return Stats{}, err
	}
	quests, err := t.store.ListQuests(engine.Filter{})
	if err != nil {
		return Stats{}, err
	}
	books, err := t.store.ListBooks(engine.Filter{})
	if err != nil {
		return Stats{}, err
	}
	courses, err := t.store.ListCourses(engine.Filter{})
	if err != nil {
		return Stats{}, err
	}
	pages, err := t.store.PagesReadOn(now)
	if err != nil {
		return Stats{}, err
	}
	units, err := t.store.UnitsDoneOn(now)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalXP:        total,
		Level:          engine.GetLevelInfo(total),
		Badges:         engine.EarnedBadges(total),
		Streak:         state.Streak,
		CheckedInToday: state.CheckedInOn(now),
		QuestsTotal:    len(quests),
		Books:          make(map[engine.BookStatus]int),
		Courses:        make(map[engine.CourseStatus]int),
		PagesToday:     pages,
		UnitsToday:     units,
		PageGoal:       t.store.GetIntSetting(SettingPageGoal, 20),
		UnitGoal:       t.store.GetIntSetting(SettingUnitGoal, 1),
	}
	if next, ok := engine.NextBadge(total); ok {
		st.NextBadge = &next
	}
	for _, q := range quests {
		if q.Done {
			st.QuestsDone++
		}
	}
	for _, b := range books {
		st.Books[b.Status]++
	}
	for _, c := range courses {
		st.Courses[c.Status]++
	}
	return st, nil
}

// DailyXP returns the XP earned per UTC day over a window of days days. The
// window ends today when offset is 0 and moves back one window per offset.
func (t *Tracker) DailyXP(days, offset int) ([]store.DayXP, error) {
	if days < 1 {
		days = 1
	}
	if offset < 0 {
		offset = 0
	}
	end := t.now().AddDate(0, 0, -offset*days)
	return t.store.DailyXP(end.AddDate(0, 0, -(days - 1)), end)
}

// Snapshot collects every record for export.
func (t *Tracker) Snapshot() (export.Snapshot, error) {
	var snap export.Snapshot
	var err error
	if snap.Quests, err = t.store.ListQuests(engine.Filter{}); err != nil {
		return snap, err
	}
	if snap.Books, err = t.store.ListBooks(engine.Filter{}); err != nil {
		return snap, err
	}
	if snap.Courses, err = t.store.ListCourses(engine.Filter{}); err != nil {
		return snap, err
	}
	if snap.TotalXP, err = t.TotalXP(); err != nil {
		return snap, err
	}
	state, err := t.store.GetAppState()
	if err != nil {
		return snap, err
	}
	snap.Streak = state.Streak
	return snap, nil
}
