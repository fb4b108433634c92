package tracker

import (
	"strconv"
	"strings"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/store"
)

// Setting keys understood by the dashboard and reports.
const (
	SettingPageGoal  = "daily_page_goal"
	SettingUnitGoal  = "daily_unit_goal"
	SettingChartDays = "chart_days"
)

// SettingKeys lists the editable settings in display order.
var SettingKeys = []string{SettingPageGoal, SettingUnitGoal, SettingChartDays}

func (t *Tracker) Settings() ([]store.Setting, error) {
	return t.store.GetAllSettings()
}

// IntSetting returns the numeric value of key, or def when unset or malformed.
func (t *Tracker) IntSetting(key string, def int) int {
	return t.store.GetIntSetting(key, def)
}

// SetSetting stores a positive integer value for one of SettingKeys.
func (t *Tracker) SetSetting(key, value string) error {
	if !isSettingKey(key) {
		return &engine.ValidationError{Kind: engine.ErrInvalidInput, Message: "unknown setting " + strconv.Quote(key)}
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return &engine.ValidationError{Kind: engine.ErrInvalidInput, Message: key + " must be a positive integer"}
	}
	if err := t.store.SetSetting(key, strconv.Itoa(n)); err != nil {
		return err
	}
	t.log.Info("setting updated", "op", "set_setting", "key", key, "value", n)
	return nil
}

func isSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}
