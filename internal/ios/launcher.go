package ios

import (
	"context"
	"fmt"

	"github.com/notexe/simfixtures/internal/device"
)

// Launcher launches apps and fires the before-launch event first, so that
// subscribers (fixture seeding) run while the app is not yet running.
type Launcher struct {
	simctl *SimCtl
	events *device.Events
}

// NewLauncher creates a Launcher. Subscribe handlers on Events().
func NewLauncher(simctl *SimCtl, events *device.Events) *Launcher {
	if events == nil {
		events = device.NewEvents()
	}
	return &Launcher{simctl: simctl, events: events}
}

// Events returns the emitter that fires before every launch.
func (l *Launcher) Events() *device.Events {
	return l.events
}

// Launch emits beforeLaunchApp for deviceID and then launches bundleID. A
// failing handler aborts the launch.
func (l *Launcher) Launch(ctx context.Context, deviceID, bundleID string) error {
	ev := device.LaunchEvent{DeviceID: deviceID, BundleID: bundleID}
	if err := l.events.EmitBeforeLaunchApp(ctx, ev); err != nil {
		return fmt.Errorf("launch of %s aborted: %w", bundleID, err)
	}
	return l.simctl.Launch(ctx, deviceID, bundleID)
}
