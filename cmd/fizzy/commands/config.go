package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fizzy-hq/fizzy-cli/internal/constants"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the persisted CLI configuration.
type Config struct {
	BaseURL        string                       `json:"base_url,omitempty"        yaml:"base_url,omitempty"`
	CurrentAccount string                       `json:"current_account,omitempty" yaml:"current_account,omitempty"`
	Output         string                       `json:"output,omitempty"          yaml:"output,omitempty"`
	Credentials    map[string]*CredentialConfig `json:"credentials,omitempty"     yaml:"credentials,omitempty"`
}

// CredentialConfig is a stored credential, keyed in Config.Credentials by
// API host.
type CredentialConfig struct {
	Type  fizzy.CredentialType `json:"type"  yaml:"type"`
	Token string               `json:"token" yaml:"token"`
}

// loadConfig builds the effective configuration from viper state.
func loadConfig() *Config {
	config := &Config{
		BaseURL:        viper.GetString("base_url"),
		CurrentAccount: viper.GetString("current_account"),
		Output:         viper.GetString("output"),
		Credentials:    make(map[string]*CredentialConfig),
	}

	stored := viper.GetStringMap("credentials")
	for host, raw := range stored {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		credential := &CredentialConfig{}
		if t, ok := entry["type"].(string); ok {
			credential.Type = fizzy.CredentialType(t)
		}

		if token, ok := entry["token"].(string); ok {
			credential.Token = token
		}

		if credential.Type == "" {
			credential.Type = fizzy.CredentialBearer
		}

		config.Credentials[host] = credential
	}

	return config
}

// credentialForHost returns the stored credential for the configured base
// URL's host.
func (c *Config) credentialForHost() (*CredentialConfig, bool) {
	credential, ok := c.Credentials[c.hostKey()]
	if !ok || credential.Token == "" {
		return nil, false
	}

	return credential, true
}

// hostKey derives the credential map key from the configured base URL.
func (c *Config) hostKey() string {
	host := c.BaseURL
	if host == "" {
		host = constants.DefaultBaseURL
	}

	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")

	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}

	return host
}

// saveConfigStruct writes the configuration to the active config file.
func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".fizzy")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change Fizzy CLI configuration values",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration with tokens masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			masked.Credentials = make(map[string]*CredentialConfig, len(config.Credentials))

			for host, credential := range config.Credentials {
				masked.Credentials[host] = &CredentialConfig{Type: credential.Type, Token: "***"}
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(&masked)
			case OutputFormatYAML:
				return StandardYAMLRenderer(&masked)
			default:
				return renderConfigTable(&masked)
			}
		},
	}
}

func renderConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Value")

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	_ = table.Append("base_url", baseURL)
	_ = table.Append("current_account", config.CurrentAccount)
	_ = table.Append("output", config.Output)

	for host, credential := range config.Credentials {
		_ = table.Append("credentials."+host, string(credential.Type)+" "+credential.Token)
	}

	_ = table.Render()

	return nil
}

// configKeys lists the settable configuration keys.
var configKeys = map[string]bool{
	"base_url":        true,
	"current_account": true,
	"output":          true,
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and persist it to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			if !configKeys[key] {
				return fmt.Errorf("%w: %q", ErrConfigKeyUnknown, key)
			}

			config := loadConfig()

			switch key {
			case "base_url":
				config.BaseURL = value
			case "current_account":
				config.CurrentAccount = value
			case "output":
				config.Output = value
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s to %q\n", key, value)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value and persist the change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !configKeys[key] {
				return fmt.Errorf("%w: %q", ErrConfigKeyUnknown, key)
			}

			config := loadConfig()

			switch key {
			case "base_url":
				config.BaseURL = ""
			case "current_account":
				config.CurrentAccount = ""
			case "output":
				config.Output = ""
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}
