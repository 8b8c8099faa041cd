package cli

import (
	"fmt"
)

type JoyAddCmd struct {
	Title       string `arg:"" help:"What to look forward to."`
	Date        string `arg:"" help:"When (RFC3339 or 'YYYY-MM-DD HH:MM')."`
	Description string `short:"d" help:"Optional description."`
}

func (c *JoyAddCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	when, err := parseWhen(c.Date)
	if err != nil {
		return err
	}
	if when == nil {
		return fmt.Errorf("date is required")
	}

	joy, err := ctx.Store.AddPlannedJoy(c.Title, optional(c.Description), *when)
	if err != nil {
		return err
	}

	fmt.Printf("Planned joy: %s on %s (ID: %s)\n", joy.Title, joy.Date.Local().Format("2006-01-02 15:04"), joy.ID)
	return nil
}

type JoyEditCmd struct {
	ID          string `arg:"" help:"Planned joy ID."`
	Title       string `arg:"" help:"New title."`
	Date        string `arg:"" help:"New date (RFC3339 or 'YYYY-MM-DD HH:MM')."`
	Description string `short:"d" help:"Optional description."`
}

func (c *JoyEditCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	when, err := parseWhen(c.Date)
	if err != nil {
		return err
	}
	if when == nil {
		return fmt.Errorf("date is required")
	}

	if err := ctx.Store.UpdatePlannedJoy(c.ID, c.Title, optional(c.Description), *when); err != nil {
		return err
	}

	fmt.Printf("Updated planned joy %s\n", c.ID)
	return nil
}

type JoyDeleteCmd struct {
	ID string `arg:"" help:"Planned joy ID."`
}

func (c *JoyDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	if err := ctx.Store.DeletePlannedJoy(c.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted planned joy %s\n", c.ID)
	return nil
}

type JoyListCmd struct{}

func (c *JoyListCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	joys := ctx.Store.PlannedJoys()
	if len(joys) == 0 {
		fmt.Println("Nothing planned yet. Add one with 'cravecount joy add'.")
		return nil
	}

	for _, j := range joys {
		fmt.Printf("%s  %s  %s",
			labelStyle.Render(j.ID),
			j.Date.Local().Format("2006-01-02 15:04"),
			titleStyle.Render(j.Title),
		)
		if j.Description != nil {
			fmt.Printf("  %s", labelStyle.Render(*j.Description))
		}
		fmt.Println()
	}
	return nil
}
