package cli

import (
	"fmt"

	"github.com/aditiintechk/CraveCount/internal/models"
)

type LogEditCmd struct {
	ID         string `arg:"" help:"Log ID."`
	Category   string `arg:"" help:"Craving category."`
	Type       string `short:"t" help:"observed or resisted." required:""`
	Emotion    string `short:"e" help:"Emotion at the time of the craving."`
	Reflection string `short:"r" help:"Free-text reflection."`
	At         string `help:"New timestamp (RFC3339 or 'YYYY-MM-DD HH:MM')."`
}

func (c *LogEditCmd) Run(ctx *Context) error {
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

	if err := ctx.Store.UpdateLog(c.ID, models.Category(c.Category), logType, optional(c.Emotion), optional(c.Reflection), when); err != nil {
		return err
	}

	fmt.Printf("Updated log %s\n", c.ID)
	return nil
}

type LogDeleteCmd struct {
	ID string `arg:"" help:"Log ID."`
}

func (c *LogDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	if err := ctx.Store.DeleteLog(c.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted log %s\n", c.ID)
	return nil
}
