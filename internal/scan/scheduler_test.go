package scan

import (
	"context"
	"testing"
	"time"

	"github.com/hipaaguard/hipaaguard/internal/collector"
	"github.com/hipaaguard/hipaaguard/internal/policy/hipaa"
)

func TestSchedulerScansAtStartup(t *testing.T) {
	idx := &fakeIndex{}
	sched := &Scheduler{
		Scanner: &Scanner{
			Collector: collector.Snapshot{},
			Library:   hipaa.Library(),
			Index:     idx,
			Logger:    quietLogger(),
		},
		Projects: []string{"prod-phi", "staging"},
		Interval: time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for len(idx.snapshot()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("initial scans did not run, inserts = %d", len(idx.snapshot()))
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	inserted := idx.snapshot()
	if inserted[0].ProjectID != "prod-phi" || inserted[1].ProjectID != "staging" {
		t.Fatalf("projects = %q, %q", inserted[0].ProjectID, inserted[1].ProjectID)
	}
}

func TestSchedulerNoopWithoutProjects(t *testing.T) {
	sched := &Scheduler{
		Scanner:  &Scanner{Collector: collector.Snapshot{}, Library: hipaa.Library(), Logger: quietLogger()},
		Interval: time.Hour,
	}
	done := make(chan struct{})
	go func() {
		sched.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler with no projects should return immediately")
	}
}
