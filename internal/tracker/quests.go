package tracker

import (
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/store"
)

// QuestInput is the user-editable part of a quest.
type QuestInput struct {
	Title    string
	XP       int
	Category string
	Type     engine.QuestType
}

func (t *Tracker) CreateQuest(in QuestInput) (*engine.Quest, error) {
	if in.Type == "" {
		in.Type = engine.QuestTopic
	}
	q, err := engine.NewQuest(in.Title, in.XP, in.Category, in.Type)
	if err != nil {
		return nil, err
	}
	created, err := t.store.CreateQuest(q)
	if err != nil {
		return nil, err
	}
	t.log.Info("quest created", "op", "quest.create", "quest_id", created.ID, "xp", created.XP)
	return created, nil
}

func (t *Tracker) GetQuest(id int64) (*engine.Quest, error) {
	return t.store.GetQuest(id)
}

func (t *Tracker) ListQuests(f engine.Filter) ([]engine.Quest, error) {
	return t.store.ListQuests(f)
}

// UpdateQuest replaces the editable fields of a quest, keeping its done flag.
func (t *Tracker) UpdateQuest(id int64, in QuestInput) (*engine.Quest, error) {
	var updated engine.Quest
	err := t.store.WithTx(func(tx *store.Store) error {
		cur, err := tx.GetQuest(id)
		if err != nil {
			return err
		}
		q, err := engine.NewQuest(in.Title, in.XP, in.Category, in.Type)
		if err != nil {
			return err
		}
		q.ID, q.Done, q.CreatedAt = cur.ID, cur.Done, cur.CreatedAt
		updated = q
		return tx.UpdateQuest(q)
	})
	if err != nil {
		return nil, err
	}
	t.log.Info("quest updated", "op", "quest.update", "quest_id", id)
	return &updated, nil
}

// ToggleQuest flips the done flag. The returned delta is the change in total XP.
func (t *Tracker) ToggleQuest(id int64) (*engine.Quest, int, error) {
	var toggled engine.Quest
	err := t.store.WithTx(func(tx *store.Store) error {
		q, err := tx.GetQuest(id)
		if err != nil {
			return err
		}
		toggled = engine.ToggleCompletion(*q)
		return tx.UpdateQuest(toggled)
	})
	if err != nil {
		return nil, 0, err
	}
	delta := toggled.XP
	if !toggled.Done {
		delta = -delta
	}
	t.log.Info("quest toggled", "op", "quest.toggle", "quest_id", id, "done", toggled.Done, "xp", delta)
	return &toggled, delta, nil
}

func (t *Tracker) DeleteQuest(id int64) error {
	if err := t.store.DeleteQuest(id); err != nil {
		return err
	}
	t.log.Info("quest deleted", "op", "quest.delete", "quest_id", id)
	return nil
}
