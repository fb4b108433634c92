package engine

// ToggleCompletion flips the done flag. XP is only counted while done.
func ToggleCompletion(q Quest) Quest {
	q.Done = !q.Done
	return q
}

// EarnedXP returns the quest's XP contribution in its current state.
func (q Quest) EarnedXP() int {
	if !q.Done {
		return 0
	}
	return q.XP
}
