package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/MarcoChavezB/pybundle/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Maximum number of runs to list" default:"20"`
	ID    string `help:"Show one run by its full ID"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if !cfg.HistoryEnabled() {
		return fmt.Errorf("history is disabled in %s", root.Config)
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	ctx := context.Background()

	if h.ID != "" {
		run, err := store.ByID(ctx, h.ID)
		if err != nil {
			return err
		}
		printRunDetail(*run)
		return nil
	}

	runs, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRUN\tPROJECT\tOUTCOME\tDURATION\tARCHIVE")
	for _, run := range runs {
		outcome := run.Outcome
		if run.FailedStage != "" {
			outcome = fmt.Sprintf("%s (%s)", run.Outcome, run.FailedStage)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.Started.Format("2006-01-02 15:04:05"),
			shortID(run.ID),
			run.Project,
			outcome,
			run.Duration().Round(10*time.Millisecond),
			run.ArchivePath)
	}
	return w.Flush()
}

func printRunDetail(run history.Run) {
	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("Project:  %s\n", run.Project)
	fmt.Printf("Started:  %s\n", run.Started.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %s\n", run.Duration().Round(10*time.Millisecond))
	fmt.Printf("Outcome:  %s\n", run.Outcome)
	if run.FailedStage != "" {
		fmt.Printf("Failed:   %s\n", run.FailedStage)
	}
	if run.Error != "" {
		fmt.Printf("Error:    %s\n", run.Error)
	}
	if run.ArchivePath != "" {
		fmt.Printf("Archive:  %s\n", run.ArchivePath)
	}
	if run.Commit != "" {
		dirty := ""
		if run.Dirty {
			dirty = " (dirty)"
		}
		fmt.Printf("Commit:   %s%s\n", run.Commit, dirty)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
