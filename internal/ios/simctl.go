package ios

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// Runner executes an xcrun subcommand and returns its stdout. On failure the
// error should carry stderr.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// ExecRunner runs the real xcrun binary.
func ExecRunner(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "xcrun", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// SimCtl provides methods to interact with xcrun simctl commands.
type SimCtl struct {
	run Runner
}

// NewSimCtl creates a SimCtl backed by the real xcrun.
func NewSimCtl() *SimCtl {
	return NewSimCtlWithRunner(ExecRunner)
}

// NewSimCtlWithRunner creates a SimCtl that runs commands through r.
func NewSimCtlWithRunner(r Runner) *SimCtl {
	return &SimCtl{run: r}
}

// ListDevices returns all available iOS simulators.
func (s *SimCtl) ListDevices(ctx context.Context) ([]Device, error) {
	out, err := s.run(ctx, "simctl", "list", "devices", "-j")
	if err != nil {
		return nil, fmt.Errorf("simctl list devices failed: %w", err)
	}
	return parseDeviceList(out)
}

func parseDeviceList(out []byte) ([]Device, error) {
	var deviceList DeviceList
	if err := json.Unmarshal(out, &deviceList); err != nil {
		return nil, fmt.Errorf("failed to parse devices JSON: %w", err)
	}

	// Flatten devices from all runtimes
	var devices []Device
	for runtime, devs := range deviceList.Devices {
		for _, d := range devs {
			d.RuntimeID = runtime
			// com.apple.CoreSimulator.SimRuntime.iOS-18-0 -> iOS-18-0
			parts := strings.Split(runtime, ".")
			d.RuntimeName = parts[len(parts)-1]
			devices = append(devices, d)
		}
	}

	return devices, nil
}

// Boot boots a simulator by UDID or name.
func (s *SimCtl) Boot(ctx context.Context, deviceID string) error {
	if _, err := s.run(ctx, "simctl", "boot", deviceID); err != nil {
		// Check if already booted
		if strings.Contains(err.Error(), "current state: Booted") {
			return nil
		}
		return fmt.Errorf("simctl boot failed: %w", err)
	}
	return nil
}

// Install installs an app bundle on the simulator.
func (s *SimCtl) Install(ctx context.Context, deviceID string, appPath string) error {
	if _, err := s.run(ctx, "simctl", "install", deviceID, appPath); err != nil {
		return fmt.Errorf("simctl install failed: %w", err)
	}
	return nil
}

// Launch launches an app on the simulator.
func (s *SimCtl) Launch(ctx context.Context, deviceID string, bundleID string) error {
	if _, err := s.run(ctx, "simctl", "launch", deviceID, bundleID); err != nil {
		return fmt.Errorf("simctl launch failed: %w", err)
	}
	return nil
}

// Terminate terminates an app on the simulator.
func (s *SimCtl) Terminate(ctx context.Context, deviceID string, bundleID string) error {
	if _, err := s.run(ctx, "simctl", "terminate", deviceID, bundleID); err != nil {
		return fmt.Errorf("simctl terminate failed: %w", err)
	}
	return nil
}

// GetBooted returns the UDID of the first booted simulator, or empty if none.
func (s *SimCtl) GetBooted(ctx context.Context) (string, error) {
	devices, err := s.ListDevices(ctx)
	if err != nil {
		return "", err
	}

	for _, d := range devices {
		if d.State == "Booted" && d.IsAvailable {
			return d.UDID, nil
		}
	}
	return "", nil
}

// ResolveDevice turns a UDID, a device name, or "" (the booted device) into a
// UDID. The fixture layout on disk is keyed by UDID, so names have to be
// looked up. When several devices share a name, a booted one is preferred.
func (s *SimCtl) ResolveDevice(ctx context.Context, idOrName string) (string, error) {
	if idOrName == "" {
		booted, err := s.GetBooted(ctx)
		if err != nil {
			return "", err
		}
		if booted == "" {
			return "", fmt.Errorf("no booted simulator found, specify device_id or boot a simulator first")
		}
		return booted, nil
	}

	if _, err := uuid.Parse(idOrName); err == nil {
		return strings.ToUpper(idOrName), nil
	}

	devices, err := s.ListDevices(ctx)
	if err != nil {
		return "", err
	}

	var match string
	for _, d := range devices {
		if d.Name != idOrName || !d.IsAvailable {
			continue
		}
		if d.State == "Booted" {
			return d.UDID, nil
		}
		if match == "" {
			match = d.UDID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no simulator named %q", idOrName)
	}
	return match, nil
}
