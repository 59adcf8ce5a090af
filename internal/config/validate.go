package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	ids, err := ParseAdminIDs(c.Bot.AdminIDsRaw)
	if err != nil {
		return fmt.Errorf("bot.admin_ids: %w", err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("bot.admin_ids: at least one privileged actor is required")
	}
	c.Bot.AdminIDs = ids

	if c.Bot.ChangesLimit <= 0 {
		return fmt.Errorf("bot.changes_limit must be > 0 (got %d)", c.Bot.ChangesLimit)
	}
	if c.Bot.PendingLimit <= 0 {
		return fmt.Errorf("bot.pending_limit must be > 0 (got %d)", c.Bot.PendingLimit)
	}
	if c.Bot.SessionMaxIdle <= 0 {
		return fmt.Errorf("bot.session_max_idle must be > 0 (got %v)", c.Bot.SessionMaxIdle)
	}
	if c.Bot.UndoWindow <= 0 {
		return fmt.Errorf("bot.undo_window must be > 0 (got %v)", c.Bot.UndoWindow)
	}

	return nil
}

// ParseAdminIDs parses a comma-separated string of actor IDs (e.g.
// "123,456"). An empty string returns a nil slice.
func ParseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
