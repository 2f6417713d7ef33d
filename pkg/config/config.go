package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"

	"github.com/birdayz/smuggle/pkg/carrier"
	"github.com/birdayz/smuggle/pkg/stego"
)

// ErrUnknownKey is returned by Set for keys the config file does not have.
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the settable keys in file order.
var Keys = []string{"carrier", "mode", "output", "utf16"}

type Config struct {
	// Carrier is a catalog name or a single character.
	Carrier string `yaml:"carrier,omitempty"`
	// Mode is the initial mode of interactive sessions: encode or decode.
	Mode string `yaml:"mode,omitempty"`
	// Output is the default output format of encode and decode.
	Output string `yaml:"output,omitempty"`
	// UTF16 splits astral code points into surrogate fragments when encoding.
	UTF16 bool `yaml:"utf16,omitempty"`
	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

// Path returns the file this config was read from and is written to.
func (c *Config) Path() string {
	return c.configPath
}

// SetCarrier stores the selected carrier and writes the config.
func (c *Config) SetCarrier(selected carrier.Carrier) error {
	old := c.Carrier
	c.Carrier = selected.Value
	if err := c.Write(); err != nil {
		// Either everything is successful or nothing.
		c.Carrier = old
		return err
	}
	return nil
}

// Set assigns a single key from its string form. It does not write.
func (c *Config) Set(key, value string) error {
	switch key {
	case "carrier":
		if value == "" {
			c.Carrier = ""
			return nil
		}
		selected, err := carrier.Parse(value)
		if err != nil {
			return err
		}
		c.Carrier = selected.Value
	case "mode":
		if value == "" {
			c.Mode = ""
			return nil
		}
		m, err := stego.ParseMode(value)
		if err != nil {
			return err
		}
		c.Mode = m.String()
	case "output":
		c.Output = value
	case "utf16":
		switch value {
		case "true", "1", "yes":
			c.UTF16 = true
		case "false", "0", "no", "":
			c.UTF16 = false
		default:
			return fmt.Errorf("invalid value %q for utf16: must be true or false", value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// InitialMode returns the configured interactive mode, decode when unset.
func (c *Config) InitialMode() (stego.Mode, error) {
	if c.Mode == "" {
		return stego.ModeDecode, nil
	}
	return stego.ParseMode(c.Mode)
}

func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return err
		}
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	c.configPath = configPath
	return nil
}

// ReadConfig reads the config at cfgPath, or at DefaultPath when cfgPath is
// empty. A missing default file yields an empty config; an explicit path
// must exist.
func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	file, err := os.OpenFile(resolvedPath, os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath

	if _, err := c.InitialMode(); err != nil {
		return Config{}, fmt.Errorf("invalid mode in %s: %w", resolvedPath, err)
	}
	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return DefaultPath()
	}
	if !fileExists(cfgPath) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return cfgPath, nil
}

// DefaultPath is $HOME/.smuggle/config.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".smuggle", "config"), nil
}
