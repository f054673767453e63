package cronrunner

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestAdd_EmptySpecDisables(t *testing.T) {
	r := New(nil, context.Background())
	ok, err := r.Add("schema_watch", "  ", func(context.Context) {})
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v want false,nil", ok, err)
	}
	if r.Entries() != 0 {
		t.Fatalf("entries=%d want 0", r.Entries())
	}
}

func TestAdd_InvalidSpec(t *testing.T) {
	r := New(nil, context.Background())
	if _, err := r.Add("schema_watch", "not a spec", func(context.Context) {}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunner_RunsAndRecovers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(zap.New(core), context.Background())

	ran := make(chan struct{}, 4)
	if _, err := r.Add("ok", "@every 1s", func(context.Context) { ran <- struct{}{} }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := r.Add("panics", "@every 1s", func(context.Context) { panic("boom") }); err != nil {
		t.Fatalf("add: %v", err)
	}
	r.Start()
	defer r.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
	deadline := time.Now().Add(3 * time.Second)
	for logs.FilterMessage("cron job panicked").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("panic was not logged")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
