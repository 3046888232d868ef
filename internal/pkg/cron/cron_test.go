package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestRun(t *testing.T) {
	c := qt.New(t)
	s := New()
	var calls atomic.Int32
	s.Register(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}})
	diskFull := errors.New("disk full")
	s.Register(Job{Name: "fails", Interval: time.Hour, Fn: func(context.Context) error {
		return diskFull
	}})

	c.Assert(s.Run(context.Background(), "ok"), qt.IsNil)
	c.Assert(calls.Load(), qt.Equals, int32(1))
	c.Assert(s.Run(context.Background(), "fails"), qt.ErrorIs, diskFull)
	c.Assert(s.Run(context.Background(), "missing"), qt.ErrorIs, ErrUnknownJob)

	items := s.List()
	c.Assert(items, qt.HasLen, 2)
	c.Assert(items[0].Name, qt.Equals, "fails")
	c.Assert(items[0].Outcome, qt.Equals, OutcomeFailed)
	c.Assert(items[0].LastError, qt.Equals, "disk full")
	c.Assert(items[1].Outcome, qt.Equals, OutcomeOK)
	c.Assert(items[1].LastRunAt.IsZero(), qt.IsFalse)
}

func TestListBeforeFirstRun(t *testing.T) {
	s := New()
	s.Register(Job{Name: "idle", Interval: time.Minute, Fn: func(context.Context) error { return nil }})
	items := s.List()
	qt.Assert(t, items, qt.HasLen, 1)
	qt.Assert(t, items[0].Outcome, qt.Equals, OutcomeNever)
	qt.Assert(t, items[0].Interval, qt.Equals, time.Minute)
	qt.Assert(t, items[0].LastRunAt.IsZero(), qt.IsTrue)
}

func TestRunRejectsOverlap(t *testing.T) {
	c := qt.New(t)
	s := New()
	release := make(chan struct{})
	started := make(chan struct{})
	s.Register(Job{Name: "slow", Interval: time.Hour, Fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), "slow") }()
	<-started
	c.Assert(s.Run(context.Background(), "slow"), qt.Equals, ErrBusy)
	close(release)
	c.Assert(<-done, qt.IsNil)
}

func TestStartRunsOnInterval(t *testing.T) {
	s := New()
	done := make(chan struct{}, 1)
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}
