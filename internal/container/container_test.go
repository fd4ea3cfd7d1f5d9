package container

import (
	"testing"

	"github.com/oriys/cachesim/internal/domain"
)

func TestLifecycleTransitions(t *testing.T) {
	c := &Container{Metadata: domain.FunctionSpec{Kind: "a", MemSize: 128, RunTime: 100, WarmTime: 10}}

	if c.State != StateCold {
		t.Fatalf("new container state = %v, want COLD", c.State)
	}
	if !c.IsIdle() {
		t.Fatalf("COLD container should be idle")
	}

	c.Prewarm()
	if c.State != StateWarm || !c.IsIdle() {
		t.Fatalf("after Prewarm: state = %v, idle = %v", c.State, c.IsIdle())
	}

	c.Run()
	if c.State != StateRunning || c.IsIdle() {
		t.Fatalf("after Run: state = %v, idle = %v", c.State, c.IsIdle())
	}

	c.Finish()
	if c.State != StateWarm || !c.IsIdle() {
		t.Fatalf("after Finish: state = %v, idle = %v", c.State, c.IsIdle())
	}

	c.Terminate()
	if c.State != StateTerm || c.IsIdle() {
		t.Fatalf("after Terminate: state = %v, idle = %v", c.State, c.IsIdle())
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateCold:    "COLD",
		StateWarm:    "WARM",
		StateRunning: "RUNNING",
		StateTerm:    "TERM",
		State(99):    "UNKNOWN",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
