package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/simfixtures/internal/device"
	"github.com/notexe/simfixtures/internal/ios"
	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var deviceFlag string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy configured fixtures into the active app container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.provisioner.Enabled() {
				fmt.Fprintln(cmd.OutOrStdout(), a.formatter.FormatInfo("No fixtures configured, nothing to seed"))
				return nil
			}

			deviceID, err := a.device(cmd, deviceFlag)
			if err != nil {
				return err
			}

			result, err := a.provisioner.Provision(cmd.Context(), deviceID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatResult(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Simulator UDID or name (default: config, then booted device)")
	return cmd
}

func newLaunchCmd(a *app) *cobra.Command {
	var deviceFlag, bundleID string

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Seed fixtures, then launch an app on the simulator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := a.device(cmd, deviceFlag)
			if err != nil {
				return err
			}

			events := device.NewEvents()
			a.provisioner.Subscribe(events)
			launcher := ios.NewLauncher(a.simctl, events)

			if err := launcher.Launch(cmd.Context(), deviceID, bundleID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "App %s launched on %s\n", bundleID, deviceID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Simulator UDID or name (default: config, then booted device)")
	cmd.Flags().StringVarP(&bundleID, "bundle", "b", "", "App bundle identifier")
	_ = cmd.MarkFlagRequired("bundle")
	return cmd
}

func newFindContainerCmd(a *app) *cobra.Command {
	var deviceFlag string

	cmd := &cobra.Command{
		Use:   "find-container",
		Short: "Print the app data container fixtures would be copied into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := a.device(cmd, deviceFlag)
			if err != nil {
				return err
			}

			container, err := a.provisioner.FindContainer(deviceID)
			if err != nil {
				return err
			}
			if container == "" {
				return fmt.Errorf("no app container found for device %s", deviceID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), container)
			return nil
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Simulator UDID or name (default: config, then booted device)")
	return cmd
}

func newDevicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List iOS simulators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := a.simctl.ListDevices(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatDevices(devices))
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start an MCP server on stdio exposing simulator tools with fixture seeding:
list_simulators, boot_simulator, install_app, launch_app, terminate_app,
seed_fixtures and find_app_container.

Add it to your MCP client configuration:

    {
      "mcpServers": {
        "simfixtures": {"command": "/path/to/simfixtures", "args": ["serve"]}
      }
    }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := ios.NewServer(a.simctl, a.provisioner)
			a.logger.Info("starting MCP server", "fixtures", len(a.provisioner.Fixtures()))
			if err := server.ServeStdio(s.MCPServer()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}
