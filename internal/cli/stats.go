package cli

import (
	"fmt"
	"strings"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	level := ctx.Store.TreeLevel()
	points := ctx.Store.WillpowerPoints()

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s %s (level %d)", level.Emoji, level.Name, level.Level)))
	fmt.Printf("%s %s\n", labelStyle.Render("Willpower points:"), valueStyle.Render(fmt.Sprintf("%d", points)))
	if level.Max != nil {
		fmt.Printf("%s %s\n", labelStyle.Render("To next level:"), valueStyle.Render(fmt.Sprintf("%d", level.PointsToNext(points))))
	}
	fmt.Println()

	fmt.Printf("%s %d observed, %d resisted (%d%% resistance)\n",
		labelStyle.Render("All time:"),
		ctx.Store.AwarenessCount(), ctx.Store.ResistedCount(), ctx.Store.ResistanceRate())
	fmt.Printf("%s current %d, longest %d\n",
		labelStyle.Render("Streaks:"), ctx.Store.CurrentStreak(), ctx.Store.LongestStreak())

	week := ctx.Store.Past7DaysStats()
	fmt.Printf("%s %d logs (%d%% observed, %d%% resisted)\n",
		labelStyle.Render("Past 7 days:"), week.Total, week.ObservedPercent, week.ResistedPercent)
	return nil
}

type ChartCmd struct {
	Days int `short:"d" help:"Number of trailing days." default:"7"`
}

func (c *ChartCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	for _, b := range ctx.Store.ChartDataForPeriod(c.Days) {
		bar := strings.Repeat("█", b.Resisted) + strings.Repeat("░", b.Observed)
		fmt.Printf("%s  %s %s\n",
			labelStyle.Render(b.Date),
			bar,
			valueStyle.Render(fmt.Sprintf("(%d)", b.Total)),
		)
	}
	return nil
}
