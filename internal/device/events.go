// Package device carries the simulator lifecycle events that other
// components hook into.
package device

import (
	"context"
	"fmt"
	"sync"
)

// LaunchEvent describes an app that is about to be launched on a simulator.
type LaunchEvent struct {
	DeviceID string `json:"deviceId"`
	BundleID string `json:"bundleId,omitempty"`
}

// Handler reacts to a lifecycle event. A non-nil error aborts the launch.
type Handler func(ctx context.Context, ev LaunchEvent) error

// Events is an in-process emitter for device lifecycle notifications.
type Events struct {
	mu           sync.RWMutex
	beforeLaunch []Handler
}

// NewEvents creates an emitter with no handlers.
func NewEvents() *Events {
	return &Events{}
}

// OnBeforeLaunchApp registers h to run before every app launch.
func (e *Events) OnBeforeLaunchApp(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beforeLaunch = append(e.beforeLaunch, h)
}

// EmitBeforeLaunchApp runs the registered handlers in order and stops at the
// first error.
func (e *Events) EmitBeforeLaunchApp(ctx context.Context, ev LaunchEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.beforeLaunch))
	copy(handlers, e.beforeLaunch)
	e.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			return fmt.Errorf("beforeLaunchApp handler failed for device %s: %w", ev.DeviceID, err)
		}
	}
	return nil
}
