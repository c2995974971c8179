// Package setup registers the MCP server with a desktop MCP client by
// editing the client's JSON configuration file.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
)

// DefaultServerName is the mcpServers key written by Install.
const DefaultServerName = "symptom-analyzer"

// BinaryName is the CLI that serves MCP via its "mcp" subcommand.
const BinaryName = "symptomctl"

const desktopConfigFile = "claude_desktop_config.json"

// MCPServerConfig represents a single MCP server configuration.
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ClientConfig is a desktop client configuration. Keys other than
// mcpServers are kept verbatim.
type ClientConfig struct {
	MCPServers map[string]MCPServerConfig
	other      map[string]json.RawMessage
}

// Options contains options for Install.
type Options struct {
	ServerName string
	BinaryPath string // empty searches PATH and common locations
	ConfigFile string // analyzer config.yaml passed with --config
	DataDir    string
}

// Status represents the current registration status.
type Status struct {
	ClientConfigPath string
	Registered       bool
	ServerPath       string
	DataDir          string
	Issues           []string
}

// DesktopConfigPath returns the platform path of the desktop client config.
func DesktopConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "Claude")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config", "Claude")
		}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, desktopConfigFile), nil
}

// LoadClientConfig reads the client config; a missing file is empty.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{
		MCPServers: make(map[string]MCPServerConfig),
		other:      make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg.other); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := cfg.other["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &cfg.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		if cfg.MCPServers == nil {
			cfg.MCPServers = make(map[string]MCPServerConfig)
		}
		delete(cfg.other, "mcpServers")
	}

	return cfg, nil
}

// SaveClientConfig writes the config, creating its directory.
func SaveClientConfig(path string, cfg *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := make(map[string]any, len(cfg.other)+1)
	for k, v := range cfg.other {
		out[k] = v
	}
	out["mcpServers"] = cfg.MCPServers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Install adds or updates the server entry in the client config at path.
func Install(path string, opts Options) (*MCPServerConfig, error) {
	cfg, err := LoadClientConfig(path)
	if err != nil {
		return nil, err
	}

	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		binaryPath, err = FindBinary()
		if err != nil {
			return nil, fmt.Errorf("could not find %s binary: %w", BinaryName, err)
		}
	}

	entry := MCPServerConfig{Command: binaryPath, Args: []string{"mcp"}}
	if opts.ConfigFile != "" {
		entry.Args = append(entry.Args, "--config", opts.ConfigFile)
	}
	if opts.DataDir != "" {
		entry.Env = map[string]string{"SYMPTOM_ANALYZER_DATA_DIR": opts.DataDir}
	}

	name := opts.ServerName
	if name == "" {
		name = DefaultServerName
	}
	cfg.MCPServers[name] = entry

	if err := SaveClientConfig(path, cfg); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove deletes the server entry. It reports whether an entry existed.
func Remove(path, name string) (bool, error) {
	cfg, err := LoadClientConfig(path)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = DefaultServerName
	}
	if _, ok := cfg.MCPServers[name]; !ok {
		return false, nil
	}
	delete(cfg.MCPServers, name)
	return true, SaveClientConfig(path, cfg)
}

// GetStatus inspects the registration at path.
func GetStatus(path, name string) (*Status, error) {
	if name == "" {
		name = DefaultServerName
	}
	status := &Status{ClientConfigPath: path, Issues: []string{}}

	cfg, err := LoadClientConfig(path)
	if err != nil {
		return nil, err
	}

	entry, ok := cfg.MCPServers[name]
	if !ok {
		status.Issues = append(status.Issues, fmt.Sprintf("%s is not registered in %s", name, path))
		return status, nil
	}

	status.Registered = true
	status.ServerPath = entry.Command
	status.DataDir = entry.Env["SYMPTOM_ANALYZER_DATA_DIR"]

	if info, err := os.Stat(entry.Command); err != nil {
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found at: %s", entry.Command))
	} else if runtime.GOOS != "windows" && info.Mode()&0111 == 0 {
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary is not executable: %s", entry.Command))
	}

	sort.Strings(status.Issues)
	return status, nil
}

// FindBinary looks for the CLI on PATH and in common install locations.
func FindBinary() (string, error) {
	if path, err := exec.LookPath(BinaryName); err == nil {
		return filepath.Abs(path)
	}

	home, _ := os.UserHomeDir()
	locations := []string{
		"./" + BinaryName,
		"./build/" + BinaryName,
		filepath.Join(home, ".local", "bin", BinaryName),
		"/usr/local/bin/" + BinaryName,
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return filepath.Abs(loc)
		}
	}

	return "", fmt.Errorf("binary '%s' not found in common locations", BinaryName)
}
