package system

import (
	"fmt"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/errors"
)

// ResetCmd wipes every habit and log and reinstalls the sample data.
type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This deletes every habit and its history.")
		ok, err := ctx.Confirm("Reset all data?")
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrAborted
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Controller.Reset(); err != nil {
		return err
	}
	st := ctx.Controller.State()
	fmt.Printf("✓ Data reset: %d sample habit(s), %d log(s)\n", len(st.Habits), len(st.Logs))
	return nil
}
