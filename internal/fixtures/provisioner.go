package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/notexe/simfixtures/internal/device"
	"github.com/spf13/afero"
)

// EventSource is anything that can notify us right before an app launches.
type EventSource interface {
	OnBeforeLaunchApp(h device.Handler)
}

// Copy records one fixture that was seeded.
type Copy struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Result describes what a single provisioning pass did. Container is empty
// when no app container was found and nothing was copied.
type Result struct {
	DeviceID  string   `json:"deviceId"`
	Container string   `json:"container,omitempty"`
	Copied    []Copy   `json:"copied,omitempty"`
	Missing   []string `json:"missing,omitempty"`
}

// Provisioner copies a fixed list of fixtures into the active app container
// of a simulator.
type Provisioner struct {
	fixtures []Fixture
	fs       afero.Fs
	homeDir  string
	log      Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithFs sets the filesystem. Defaults to the host filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(p *Provisioner) { p.fs = fsys }
}

// WithHomeDir overrides the home directory the CoreSimulator layout lives
// under. Defaults to os.UserHomeDir.
func WithHomeDir(dir string) Option {
	return func(p *Provisioner) { p.homeDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(p *Provisioner) { p.log = l }
}

// New creates a Provisioner. An empty fixture list disables provisioning.
func New(fixtures []Fixture, opts ...Option) *Provisioner {
	p := &Provisioner{
		fixtures: append([]Fixture(nil), fixtures...),
		fs:       afero.NewOsFs(),
		log:      NopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports whether any fixtures are configured.
func (p *Provisioner) Enabled() bool {
	return len(p.fixtures) > 0
}

// Fixtures returns a copy of the configured fixtures.
func (p *Provisioner) Fixtures() []Fixture {
	return append([]Fixture(nil), p.fixtures...)
}

// Subscribe registers the provisioner on src's before-launch notification.
func (p *Provisioner) Subscribe(src EventSource) {
	src.OnBeforeLaunchApp(p.OnBeforeLaunch)
}

// OnBeforeLaunch seeds fixtures for ev.DeviceID. Only unexpected I/O errors
// are returned; a missing container or missing source file just means fewer
// files are seeded.
func (p *Provisioner) OnBeforeLaunch(ctx context.Context, ev device.LaunchEvent) error {
	_, err := p.Provision(ctx, ev.DeviceID)
	return err
}

// Provision runs one provisioning pass and reports what it did.
func (p *Provisioner) Provision(ctx context.Context, deviceID string) (Result, error) {
	res := Result{DeviceID: deviceID}
	if !p.Enabled() {
		return res, nil
	}
	if deviceID == "" {
		return res, errors.New("device id is required")
	}

	home, err := p.home()
	if err != nil {
		return res, err
	}

	simRoot := SimulatorRoot(home, deviceID)
	p.log.Debug(EventAppDirectorySearch, "simulator directory", "path", simRoot)

	container, err := FindLatestContainer(p.fs, ApplicationsRoot(home, deviceID), p.log)
	if err != nil {
		return res, err
	}
	if container == "" {
		return res, nil
	}
	res.Container = container

	for _, f := range p.fixtures {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		c, ok, err := p.copyFixture(container, f)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Missing = append(res.Missing, f.SourcePath)
			continue
		}
		res.Copied = append(res.Copied, c)
	}

	p.log.Debug(EventFixtureCopy, "done", "copied", len(res.Copied), "missing", len(res.Missing))
	return res, nil
}

// FindContainer returns the app container the next provisioning pass would
// use for deviceID, or "" if there is none.
func (p *Provisioner) FindContainer(deviceID string) (string, error) {
	home, err := p.home()
	if err != nil {
		return "", err
	}
	return FindLatestContainer(p.fs, ApplicationsRoot(home, deviceID), p.log)
}

func (p *Provisioner) home() (string, error) {
	if p.homeDir != "" {
		return p.homeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return home, nil
}

// copyFixture copies f into container. ok is false when the source does not
// exist; that case is logged and is not an error.
func (p *Provisioner) copyFixture(container string, f Fixture) (Copy, bool, error) {
	src, err := filepath.Abs(f.SourcePath)
	if err != nil {
		return Copy{}, false, fmt.Errorf("failed to resolve fixture path %s: %w", f.SourcePath, err)
	}

	info, err := p.fs.Stat(src)
	switch {
	case isNotExist(err):
		p.log.Error(EventFixtureCopy, "fixture file does not exist, skipping", "path", f.SourcePath)
		return Copy{}, false, nil
	case err != nil:
		return Copy{}, false, fmt.Errorf("failed to stat fixture %s: %w", src, err)
	case info.IsDir():
		p.log.Error(EventFixtureCopy, "fixture is a directory, skipping", "path", f.SourcePath)
		return Copy{}, false, nil
	}

	// SecureJoin keeps "../" in the destination from leaving Documents.
	dstDir, err := securejoin.SecureJoin(filepath.Join(container, documentsDir), f.DestinationSubdir)
	if err != nil {
		return Copy{}, false, fmt.Errorf("invalid destination directory %q: %w", f.DestinationSubdir, err)
	}
	if err := p.fs.MkdirAll(dstDir, 0o755); err != nil {
		return Copy{}, false, fmt.Errorf("failed to create %s: %w", dstDir, err)
	}

	dst := filepath.Join(dstDir, filepath.Base(src))
	p.log.Debug(EventFixtureCopy, "copying fixture", "source", src, "destination", dst)
	if err := copyFile(p.fs, src, dst); err != nil {
		return Copy{}, false, err
	}
	return Copy{Source: src, Destination: dst}, true, nil
}
