package cli

import (
	"fmt"

	"github.com/aditiintechk/CraveCount/internal/models"
)

type LogAddCmd struct {
	Category   string `arg:"" help:"Craving category (built-in or custom)."`
	Type       string `short:"t" help:"observed or resisted." default:"observed"`
	Emotion    string `short:"e" help:"Emotion at the time of the craving."`
	Reflection string `short:"r" help:"Free-text reflection."`
	At         string `help:"Backdate the log (RFC3339 or 'YYYY-MM-DD HH:MM')."`
}

func (c *LogAddCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	logType, err := parseLogType(c.Type)
	if err != nil {
		return err
	}
	when, err := parseWhen(c.At)
	if err != nil {
		return err
	}

	entry, err := ctx.Store.AddLog(models.Category(c.Category), logType, optional(c.Emotion), optional(c.Reflection), when)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %s craving: %s (+%d points, ID: %s)\n", entry.Type, entry.Category, entry.Points, entry.ID)
	return nil
}
