package cli

import (
	"fmt"

	"github.com/aditiintechk/CraveCount/internal/models"
)

type LogListCmd struct {
	Limit int `short:"n" help:"Show at most N entries." default:"20"`
}

func (c *LogListCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	logs := ctx.Store.Logs()
	if len(logs) == 0 {
		fmt.Println("No logs yet. Record one with 'cravecount log add'.")
		return nil
	}

	shown := logs
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}

	for _, l := range shown {
		style := observedStyle
		if l.Type == models.LogTypeResisted {
			style = resistedStyle
		}
		fmt.Printf("%s  %s  %s  %s",
			labelStyle.Render(l.ID),
			l.Timestamp.Local().Format("2006-01-02 15:04"),
			style.Render(string(l.Type)),
			valueStyle.Render(string(l.Category)),
		)
		if l.Emotion != nil {
			fmt.Printf("  (%s)", *l.Emotion)
		}
		fmt.Println()
		if l.Reflection != nil {
			fmt.Printf("    %s\n", labelStyle.Render(*l.Reflection))
		}
	}

	if len(shown) < len(logs) {
		fmt.Printf("... and %d more\n", len(logs)-len(shown))
	}
	return nil
}
