package service

import "sync"

// StateBarrier coordinates single-entity writers with whole-collection
// operations. Ordinary mutations hold the barrier in shared mode so that
// writers to different thresholds proceed in parallel; export and import
// hold it in exclusive mode, guaranteeing a point-in-time consistent view
// with no writer commit interleaved.
type StateBarrier struct {
	mu sync.RWMutex
}

// NewStateBarrier creates a barrier shared by all mutation paths.
func NewStateBarrier() *StateBarrier {
	return &StateBarrier{}
}

// AcquireShared blocks while an exclusive holder is active.
func (b *StateBarrier) AcquireShared() { b.mu.RLock() }

// ReleaseShared releases a shared hold.
func (b *StateBarrier) ReleaseShared() { b.mu.RUnlock() }

// AcquireExclusive blocks until all shared holders drain.
func (b *StateBarrier) AcquireExclusive() { b.mu.Lock() }

// ReleaseExclusive releases the exclusive hold.
func (b *StateBarrier) ReleaseExclusive() { b.mu.Unlock() }
