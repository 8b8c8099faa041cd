package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aditiintechk/CraveCount/internal/models"
	"github.com/aditiintechk/CraveCount/internal/store"
)

// Context is shared by every command. The store is initialized lazily so
// commands that fail flag validation never touch storage.
type Context struct {
	Store *store.Store

	initialized bool
}

// Init bootstraps identity and loads data once per invocation.
func (c *Context) Init() error {
	if c.initialized {
		return nil
	}
	if err := c.Store.Init(context.Background()); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func parseLogType(s string) (models.LogType, error) {
	switch strings.ToLower(s) {
	case "observed", "o":
		return models.LogTypeObserved, nil
	case "resisted", "r":
		return models.LogTypeResisted, nil
	default:
		return "", fmt.Errorf("invalid type %q (want observed or resisted)", s)
	}
}

// parseWhen accepts RFC 3339 or a local "2006-01-02 15:04" timestamp.
func parseWhen(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid time %q (want RFC3339, 'YYYY-MM-DD HH:MM' or 'YYYY-MM-DD')", s)
}

// optional returns nil for the empty string so absent flags serialize as
// absent fields, never as "".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatOptional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
