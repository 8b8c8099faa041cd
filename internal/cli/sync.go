package cli

import (
	"fmt"
	"time"
)

type InitCmd struct{}

// Run establishes the anonymous identity and loads whatever data already
// exists, so the first real command starts warm.
func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	fmt.Printf("Ready. %d logs, %d planned joys, %d willpower points.\n",
		len(ctx.Store.Logs()), len(ctx.Store.PlannedJoys()), ctx.Store.WillpowerPoints())
	return nil
}

type SyncCmd struct{}

// Run pushes the current snapshot to the cloud and waits briefly for the
// write to settle. Every mutation already writes through, so this exists
// for peace of mind after a run of offline sessions.
func (c *SyncCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	before := ctx.Store.SyncStatus().LastSyncedAt
	ctx.Store.ForceSync()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status := ctx.Store.SyncStatus()
		if !status.IsSyncing && status.LastSyncedAt != nil && (before == nil || status.LastSyncedAt.After(*before)) {
			fmt.Printf("Synced at %s\n", status.LastSyncedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Println("Sync did not complete; data stays safe locally and will retry on the next change.")
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	if err := ctx.Init(); err != nil {
		return err
	}

	status := ctx.Store.SyncStatus()
	if status.IsSyncing {
		fmt.Println("Syncing...")
	} else if status.LastSyncedAt != nil {
		fmt.Printf("Last synced %s\n", status.LastSyncedAt.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Never synced to the cloud")
	}
	return nil
}
