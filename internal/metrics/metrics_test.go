package metrics

import (
	"sync"
	"testing"
)

func TestNilCollector_NoOps(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.Connected()
	c.TornDown()
	c.CommandSent(42)
	c.ChunkReceived()
	c.Dispatched()
	c.UnknownCommand()

	snap := c.Snapshot()
	if snap.CommandsSent != 0 || snap.Connects != 0 {
		t.Errorf("nil collector snapshot not zero: %+v", snap)
	}
}

func TestCollector_Counts(t *testing.T) {
	c := New()

	c.Connected()
	c.CommandSent(10)
	c.CommandSent(5)
	c.ChunkReceived()
	c.Dispatched()
	c.UnknownCommand()
	c.TornDown()

	snap := c.Snapshot()
	if snap.Connects != 1 || snap.Teardowns != 1 {
		t.Errorf("lifecycle counts wrong: %+v", snap)
	}
	if snap.CommandsSent != 2 || snap.BytesOut != 15 {
		t.Errorf("outbound counts wrong: %+v", snap)
	}
	if snap.ChunksIn != 1 || snap.Dispatched != 1 || snap.UnknownCommands != 1 {
		t.Errorf("inbound counts wrong: %+v", snap)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.CommandSent(1)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot().CommandsSent; got != 1000 {
		t.Errorf("CommandsSent = %d, want 1000", got)
	}
}
