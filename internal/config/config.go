// Package config loads and merges the optional digest configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/cdigest/internal/utils"
)

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Settings holds digest defaults that command line flags can override.
// Pointer fields distinguish an unset key from an explicit zero value.
type Settings struct {
	MaxDepth         *int     `mapstructure:"maxDepth"`
	OutputFormat     string   `mapstructure:"outputFormat"`
	ShowSize         *bool    `mapstructure:"showSize"`
	ShowIgnored      *bool    `mapstructure:"showIgnored"`
	NoContent        *bool    `mapstructure:"noContent"`
	MaxSizeKB        *int     `mapstructure:"maxSizeKB"`
	CopyToClipboard  *bool    `mapstructure:"copyToClipboard"`
	NoDefaultIgnores *bool    `mapstructure:"noDefaultIgnores"`
	Model            string   `mapstructure:"model"`
	Ignore           []string `mapstructure:"ignore"`
}

// LoadSettings loads configuration from the global and local files, merging
// the local file over the global one. Missing files are not errors.
func LoadSettings(options LoadOptions) (Settings, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Settings{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged Settings

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalSettings, loadError := loadSettingsFromPath(globalPath)
		if loadError != nil {
			return Settings{}, loadError
		}
		merged = merged.Merge(globalSettings)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return Settings{}, resolveError
	}
	if localPath != "" {
		localSettings, loadError := loadSettingsFromPath(localPath)
		if loadError != nil {
			return Settings{}, loadError
		}
		merged = merged.Merge(localSettings)
	}

	merged.Ignore = utils.DeduplicatePatterns(merged.Ignore)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory string, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, absoluteError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadSettingsFromPath(path string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return Settings{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return Settings{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var settings Settings
	if decodeError := reader.Unmarshal(&settings); decodeError != nil {
		return Settings{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return settings, nil
}

// Merge overlays override onto the receiver returning the combined settings.
// Only keys the override actually sets are copied.
func (settings Settings) Merge(override Settings) Settings {
	result := settings
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.OutputFormat != "" {
		result.OutputFormat = override.OutputFormat
	}
	if override.ShowSize != nil {
		result.ShowSize = cloneBool(override.ShowSize)
	}
	if override.ShowIgnored != nil {
		result.ShowIgnored = cloneBool(override.ShowIgnored)
	}
	if override.NoContent != nil {
		result.NoContent = cloneBool(override.NoContent)
	}
	if override.MaxSizeKB != nil {
		result.MaxSizeKB = cloneInt(override.MaxSizeKB)
	}
	if override.CopyToClipboard != nil {
		result.CopyToClipboard = cloneBool(override.CopyToClipboard)
	}
	if override.NoDefaultIgnores != nil {
		result.NoDefaultIgnores = cloneBool(override.NoDefaultIgnores)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.DeduplicatePatterns(override.Ignore)...)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
