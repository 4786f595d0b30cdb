package ios

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/simfixtures/internal/device"
	"github.com/notexe/simfixtures/internal/fixtures"
)

const (
	serverName    = "ios-simulator-fixtures"
	serverVersion = "1.0.0"
)

// Server is the MCP server for simulator control with fixture seeding.
type Server struct {
	mcpServer   *server.MCPServer
	simctl      *SimCtl
	launcher    *Launcher
	provisioner *fixtures.Provisioner
}

// NewServer creates a new MCP server. The provisioner is subscribed to the
// launcher's before-launch event, so launch_app seeds fixtures first.
func NewServer(simctl *SimCtl, provisioner *fixtures.Provisioner) *Server {
	events := device.NewEvents()
	provisioner.Subscribe(events)

	s := &Server{
		simctl:      simctl,
		launcher:    NewLauncher(simctl, events),
		provisioner: provisioner,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerSimulatorTools()
	s.registerAppTools()
	s.registerFixtureTools()

	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerSimulatorTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_simulators",
			mcp.WithDescription("List all available iOS simulators with their UDID, name, state, and runtime"),
		),
		s.handleListSimulators,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("boot_simulator",
			mcp.WithDescription("Boot an iOS simulator by UDID or name"),
			mcp.WithString("device_id", mcp.Required(), mcp.Description("Simulator UDID or name")),
		),
		s.handleBootSimulator,
	)
}

func (s *Server) registerAppTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("install_app",
			mcp.WithDescription("Install an app bundle on the iOS simulator"),
			mcp.WithString("device_id", mcp.Description("Simulator UDID or name (uses booted device if not specified)")),
			mcp.WithString("app_path", mcp.Required(), mcp.Description("Path to the .app bundle")),
		),
		s.handleInstallApp,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription("Seed configured fixtures into the app's Documents directory, then launch the app"),
			mcp.WithString("device_id", mcp.Description("Simulator UDID or name (uses booted device if not specified)")),
			mcp.WithString("bundle_id", mcp.Required(), mcp.Description("App bundle identifier")),
		),
		s.handleLaunchApp,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("terminate_app",
			mcp.WithDescription("Terminate a running app on the iOS simulator"),
			mcp.WithString("device_id", mcp.Description("Simulator UDID or name (uses booted device if not specified)")),
			mcp.WithString("bundle_id", mcp.Required(), mcp.Description("App bundle identifier")),
		),
		s.handleTerminateApp,
	)
}

func (s *Server) registerFixtureTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("seed_fixtures",
			mcp.WithDescription("Copy configured fixture files into the most recently modified app data container without launching"),
			mcp.WithString("device_id", mcp.Description("Simulator UDID or name (uses booted device if not specified)")),
		),
		s.handleSeedFixtures,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("find_app_container",
			mcp.WithDescription("Show which app data container fixtures would be copied into"),
			mcp.WithString("device_id", mcp.Description("Simulator UDID or name (uses booted device if not specified)")),
		),
		s.handleFindAppContainer,
	)
}

// resolveDevice reads device_id from the request and resolves it to a UDID.
func (s *Server) resolveDevice(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	return s.simctl.ResolveDevice(ctx, req.GetString("device_id", ""))
}

// Tool handlers

func (s *Server) handleListSimulators(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.simctl.ListDevices(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := json.MarshalIndent(devices, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format output: %v", err)), nil
	}

	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleBootSimulator(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceID := req.GetString("device_id", "")
	if deviceID == "" {
		return mcp.NewToolResultError("device_id is required"), nil
	}

	if err := s.simctl.Boot(ctx, deviceID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Simulator %s booted successfully", deviceID)), nil
}

func (s *Server) handleInstallApp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appPath := req.GetString("app_path", "")
	if appPath == "" {
		return mcp.NewToolResultError("app_path is required"), nil
	}

	deviceID, err := s.resolveDevice(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.simctl.Install(ctx, deviceID, appPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("App installed successfully from: %s", appPath)), nil
}

func (s *Server) handleLaunchApp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bundleID := req.GetString("bundle_id", "")
	if bundleID == "" {
		return mcp.NewToolResultError("bundle_id is required"), nil
	}

	deviceID, err := s.resolveDevice(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.launcher.Launch(ctx, deviceID, bundleID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("App %s launched successfully", bundleID)), nil
}

func (s *Server) handleTerminateApp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bundleID := req.GetString("bundle_id", "")
	if bundleID == "" {
		return mcp.NewToolResultError("bundle_id is required"), nil
	}

	deviceID, err := s.resolveDevice(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.simctl.Terminate(ctx, deviceID, bundleID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("App %s terminated successfully", bundleID)), nil
}

func (s *Server) handleSeedFixtures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.provisioner.Enabled() {
		return mcp.NewToolResultText("No fixtures configured, nothing to seed"), nil
	}

	deviceID, err := s.resolveDevice(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.provisioner.Provision(ctx, deviceID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format output: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleFindAppContainer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceID, err := s.resolveDevice(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	container, err := s.provisioner.FindContainer(deviceID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if container == "" {
		return mcp.NewToolResultText(fmt.Sprintf("No app container found for device %s (is the app installed?)", deviceID)), nil
	}

	return mcp.NewToolResultText(container), nil
}
