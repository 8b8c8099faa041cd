package cli

import "fmt"

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	found := ctx.Store.Insights()
	if len(found) == 0 {
		fmt.Println("No patterns yet. Keep logging; insights appear once there is enough data to be sure of them.")
		return nil
	}

	for i, in := range found {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(titleStyle.Render(in.Title))
		fmt.Printf("%s %s\n", labelStyle.Render("["+in.TypeLabel+"]"), valueStyle.Render(in.Message))
		if in.Actionable != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Try:"), in.Actionable)
		}
	}
	return nil
}

type BadgesCmd struct {
	All bool `help:"Include locked badges."`
}

func (c *BadgesCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	for _, b := range ctx.Store.Badges() {
		if !b.Unlocked && !c.All {
			continue
		}
		line := fmt.Sprintf("%s %s — %s (%d/%d)", b.Icon, b.Title, b.Description, b.Progress, b.Total)
		if b.Unlocked {
			fmt.Println(valueStyle.Render(line))
		} else {
			fmt.Println(lockedStyle.Render(line))
		}
	}
	return nil
}
