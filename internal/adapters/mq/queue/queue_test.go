package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/echotone/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	res1 := model.Result{ResultID: "result1", PlayerID: "alice", Round: 3, Score: model.Score{Position: 80, Rhythm: 72, Total: 76}, Passed: true}
	if !q.Enqueue(ctx, res1) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	resultChan := q.Dequeue(ctx)
	res := <-resultChan
	if res.ResultID != "result1" {
		t.Errorf("expected result1, got %v", res.ResultID)
	}
	if res.PlayerID != "alice" {
		t.Errorf("expected alice, got %v", res.PlayerID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Fill the queue
	res1 := model.Result{ResultID: "result1", PlayerID: "alice", Round: 1}
	res2 := model.Result{ResultID: "result2", PlayerID: "bob", Round: 2}
	res3 := model.Result{ResultID: "result3", PlayerID: "cleo", Round: 3}

	if !q.Enqueue(ctx, res1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, res2) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, res3) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numResults := 100

	// Start producer goroutines
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numResults; j++ {
				res := model.Result{
					ResultID: fmt.Sprintf("result%d_%d", id, j),
					PlayerID: fmt.Sprintf("player%d", id),
					Round:    j + 1,
				}
				for !q.Enqueue(ctx, res) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Start consumer goroutines
	consumed := make(chan string, numGoroutines*numResults)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			resultChan := q.Dequeue(ctx)
			for res := range resultChan {
				consumed <- res.ResultID
			}
		}()
	}

	// Wait for producers to finish
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Wait a bit for consumers to process
	time.Sleep(100 * time.Millisecond)

	// Check final queue length
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	// Enqueue some results
	res1 := model.Result{ResultID: "result1", PlayerID: "alice", Round: 1}
	res2 := model.Result{ResultID: "result2", PlayerID: "bob", Round: 2}

	if !q.Enqueue(ctx, res1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, res2) {
		t.Error("expected enqueue to succeed")
	}

	// Check initial state
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	// Close the queue
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	// Check closed state
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, res1) {
		t.Error("expected enqueue to fail after closing")
	}

	// Dequeue channel should drain the buffered results and then close
	resultChan := q.Dequeue(ctx)

	timeout := time.After(100 * time.Millisecond)
	drained := 0
	for {
		select {
		case _, ok := <-resultChan:
			if !ok {
				// Channel is closed, which is expected
				goto channelClosed
			}
			drained++
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
channelClosed:
	if drained != 2 {
		t.Errorf("expected 2 drained results, got %d", drained)
	}

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
