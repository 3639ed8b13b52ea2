package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestRunUntilShutdownWaitsForProcessor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	stopped := false
	run := func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		stopped = true
	}

	returned := make(chan struct{})
	go func() {
		runUntilShutdown(ctx, zaptest.NewLogger(t), run)
		close(returned)
	}()

	<-started
	cancel()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("runUntilShutdown did not return after cancellation")
	}
	assert.True(t, stopped)
}
