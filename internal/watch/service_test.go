package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MarcoChavezB/pybundle/internal/config"
	"github.com/MarcoChavezB/pybundle/internal/pipeline"
)

func watchTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.py")
	reqs := filepath.Join(dir, "requirements.txt")
	for _, p := range []string{entry, reqs} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{Project: "demo", EntryScript: entry, Requirements: reqs}
	cfg.Watch.Debounce = 20 * time.Millisecond
	return cfg
}

func waitForBuilds(t *testing.T, count *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for count.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("saw %d builds, wanted at least %d", count.Load(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServiceRebuildsOnChange(t *testing.T) {
	cfg := watchTestConfig(t)

	var count atomic.Int64
	svc := NewService(cfg, func(ctx context.Context) (*pipeline.Report, error) {
		n := count.Add(1)
		return &pipeline.Report{
			RunID:   "run-" + string(rune('0'+n)),
			Project: cfg.Project,
			Outcome: pipeline.OutcomeSuccess,
		}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	// Initial build fires without any file change.
	waitForBuilds(t, &count, 1)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(cfg.EntryScript, []byte("print('v2')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForBuilds(t, &count, 2)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop after cancel")
	}

	st := svc.Status()
	if st.Project != "demo" {
		t.Fatalf("status project = %q", st.Project)
	}
	if st.Builds < 2 {
		t.Fatalf("status builds = %d", st.Builds)
	}
	if st.Failures != 0 {
		t.Fatalf("status failures = %d", st.Failures)
	}
	if st.LastOutcome != string(pipeline.OutcomeSuccess) {
		t.Fatalf("status last outcome = %q", st.LastOutcome)
	}
}

func TestServiceSurvivesBuildFailure(t *testing.T) {
	cfg := watchTestConfig(t)

	var count atomic.Int64
	svc := NewService(cfg, func(ctx context.Context) (*pipeline.Report, error) {
		count.Add(1)
		return nil, errors.New("freeze blew up")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	waitForBuilds(t, &count, 1)

	// A failed build must not stop the loop.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(cfg.Requirements, []byte("requests\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForBuilds(t, &count, 2)

	cancel()
	<-done

	st := svc.Status()
	if st.Failures < 2 {
		t.Fatalf("status failures = %d", st.Failures)
	}
}

func TestServiceWatchesExtraFiles(t *testing.T) {
	cfg := watchTestConfig(t)
	extra := filepath.Join(filepath.Dir(cfg.EntryScript), "pybundle.yaml")
	if err := os.WriteFile(extra, []byte("project: demo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int64
	svc := NewService(cfg, func(ctx context.Context) (*pipeline.Report, error) {
		count.Add(1)
		return &pipeline.Report{Outcome: pipeline.OutcomeSuccess}, nil
	}, extra)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	waitForBuilds(t, &count, 1)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(extra, []byte("project: demo\nvenv_dir: .venv2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForBuilds(t, &count, 2)

	cancel()
	<-done
}

func TestServiceIntervalRebuild(t *testing.T) {
	cfg := watchTestConfig(t)
	cfg.Watch.Interval = 50 * time.Millisecond

	var count atomic.Int64
	svc := NewService(cfg, func(ctx context.Context) (*pipeline.Report, error) {
		count.Add(1)
		return &pipeline.Report{RunID: "tick", Outcome: pipeline.OutcomeSuccess}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	// Initial build plus at least one interval-driven rebuild.
	waitForBuilds(t, &count, 2)

	cancel()
	<-done
}
