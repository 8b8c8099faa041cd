package cli

import (
	"fmt"

	"github.com/aditiintechk/CraveCount/internal/models"
)

type CravingsSetCmd struct {
	Cravings []string `arg:"" help:"Between 1 and 10 craving categories to track."`
}

func (c *CravingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	cravings := make([]models.Category, 0, len(c.Cravings))
	for _, s := range c.Cravings {
		cravings = append(cravings, models.Category(s))
	}

	if err := ctx.Store.SetCustomCravings(cravings); err != nil {
		return err
	}

	fmt.Printf("Tracking %d cravings\n", len(cravings))
	return nil
}

type CravingsListCmd struct{}

func (c *CravingsListCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	current := ctx.Store.CustomCravings()
	if len(current) == 0 {
		fmt.Println("No cravings selected yet. Built-in options:")
		for _, b := range models.BuiltinCategories {
			fmt.Printf("  %s\n", b)
		}
		return nil
	}

	for _, c := range current {
		fmt.Println(valueStyle.Render(string(c)))
	}
	return nil
}

type EmotionsSetCmd struct {
	Emotions []string `arg:"" help:"Between 1 and 10 emotions (free text, emoji welcome)."`
}

func (c *EmotionsSetCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	if err := ctx.Store.SetCustomEmotions(c.Emotions); err != nil {
		return err
	}

	fmt.Printf("Tracking %d emotions\n", len(c.Emotions))
	return nil
}
