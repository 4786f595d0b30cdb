package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check prerequisites and configured fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.checkPrerequisites(cmd.OutOrStdout()) {
				return errors.New("some prerequisites are missing")
			}
			return nil
		},
	}
}

func (a *app) checkPrerequisites(w io.Writer) bool {
	allGood := true

	// Check simctl
	fmt.Fprint(w, "✓ Simulator (simctl): ")
	if _, err := exec.LookPath("xcrun"); err != nil {
		fmt.Fprintln(w, "NOT FOUND")
		fmt.Fprintln(w, "  → Install: xcode-select --install")
		allGood = false
	} else {
		fmt.Fprintln(w, "OK")
	}

	// Check CoreSimulator device directory
	fmt.Fprint(w, "✓ CoreSimulator devices: ")
	home := a.cfg.Simulator.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	devicesDir := filepath.Join(home, "Library", "Developer", "CoreSimulator", "Devices")
	if _, err := os.Stat(devicesDir); err != nil {
		fmt.Fprintln(w, "NOT FOUND")
		fmt.Fprintf(w, "  → Expected at %s\n", devicesDir)
		allGood = false
	} else {
		fmt.Fprintln(w, devicesDir)
	}

	// Check configured fixtures
	list := a.provisioner.Fixtures()
	fmt.Fprintf(w, "✓ Fixtures: %d configured\n", len(list))
	for _, f := range list {
		src, err := filepath.Abs(f.SourcePath)
		if err != nil {
			src = f.SourcePath
		}
		if _, err := os.Stat(src); err != nil {
			fmt.Fprintf(w, "  ✗ %s (missing)\n", src)
			allGood = false
			continue
		}
		fmt.Fprintf(w, "  • %s → %s\n", src, filepath.Join("Documents", f.DestinationSubdir))
	}

	fmt.Fprintln(w)
	if allGood {
		fmt.Fprintln(w, a.formatter.FormatInfo("✅ All prerequisites met."))
	} else {
		fmt.Fprintln(w, a.formatter.FormatInfo("❌ Some prerequisites are missing."))
	}
	return allGood
}
