package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Radio   RadioConfig   `yaml:"radio"`
	Link    LinkConfig    `yaml:"link"`
	Crypto  CryptoConfig  `yaml:"crypto"`
	Battery BatteryConfig `yaml:"battery"`
	Outbox  OutboxConfig  `yaml:"outbox"`
	UI      UIConfig      `yaml:"ui"`
}

type DeviceConfig struct {
	Name           string `yaml:"name"`
	T9TimeoutMS    int    `yaml:"t9_timeout_ms"`
	DebounceMS     int    `yaml:"debounce_ms"`
	ScanIntervalMS int    `yaml:"scan_interval_ms"`
	BufferLimit    int    `yaml:"buffer_limit"`
	LogLimit       int    `yaml:"log_limit"`
	LogFile        string `yaml:"log_file"`

	// GPIO numbers of the matrix drive and sense lines. Empty means no
	// physical keypad; input then comes from the terminal and scripts.
	MatrixRowPins []int `yaml:"matrix_row_pins"`
	MatrixColPins []int `yaml:"matrix_col_pins"`
}

type RadioConfig struct {
	Transport string `yaml:"transport"` // "tcp" or "serial"
	Target    string `yaml:"target"`    // host:port for tcp
	Device    string `yaml:"device"`    // tty path for serial
	Baud      int    `yaml:"baud"`
}

type LinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type CryptoConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Key        string `yaml:"key"` // 32 hex digits (16 bytes)
	Passphrase string `yaml:"passphrase"`
	KeyFile    string `yaml:"key_file"`
}

type BatteryConfig struct {
	Source     string  `yaml:"source"` // sysfs voltage path; empty = stub
	Divider    float64 `yaml:"divider"`
	EmptyVolts float64 `yaml:"empty_volts"`
	FullVolts  float64 `yaml:"full_volts"`
	IntervalMS int     `yaml:"interval_ms"`
}

type OutboxConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type UIConfig struct {
	ShowMetrics bool `yaml:"show_metrics"`
}

func DefaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Name:           "loraterm",
			T9TimeoutMS:    1000,
			DebounceMS:     150,
			ScanIntervalMS: 20,
			BufferLimit:    127,
			LogLimit:       200,
			LogFile:        "loraterm.log",
		},
		Radio: RadioConfig{
			Transport: "tcp",
			Target:    "127.0.0.1:9300",
			Device:    "/dev/ttyUSB0",
			Baud:      9600,
		},
		Link: LinkConfig{
			Enabled: true,
			Listen:  "127.0.0.1:9301",
		},
		Crypto: CryptoConfig{
			Enabled: true,
			// Shipped default shared by factory devices. Replace it
			// with genkey output before real deployments.
			Key: "0123456789ABCDEFFEDCBA9876543210",
		},
		Battery: BatteryConfig{
			Divider:    2.0,
			EmptyVolts: 3.0,
			FullVolts:  4.2,
			IntervalMS: 2000,
		},
		Outbox: OutboxConfig{
			Enabled: false,
			Dir:     "outbox",
		},
		UI: UIConfig{
			ShowMetrics: true,
		},
	}
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadOptional(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := validate(cfg); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func validate(cfg Config) error {
	switch cfg.Radio.Transport {
	case "tcp", "serial":
	default:
		return fmt.Errorf("radio.transport: unknown transport %q", cfg.Radio.Transport)
	}
	if cfg.Radio.Transport == "tcp" && cfg.Radio.Target == "" {
		return errors.New("radio.target is required for tcp transport")
	}
	if cfg.Radio.Transport == "serial" {
		if cfg.Radio.Device == "" {
			return errors.New("radio.device is required for serial transport")
		}
		if cfg.Radio.Baud <= 0 {
			return errors.New("radio.baud must be positive")
		}
	}
	if cfg.Crypto.Key != "" {
		raw, err := hex.DecodeString(cfg.Crypto.Key)
		if err != nil {
			return fmt.Errorf("crypto.key: %w", err)
		}
		if len(raw) != 16 {
			return errors.New("crypto.key must be 32 hex digits (16 bytes)")
		}
	}
	if cfg.Battery.FullVolts <= cfg.Battery.EmptyVolts {
		return errors.New("battery.full_volts must exceed battery.empty_volts")
	}
	if cfg.Battery.Divider <= 0 {
		return errors.New("battery.divider must be positive")
	}
	if cfg.Device.BufferLimit <= 0 {
		return errors.New("device.buffer_limit must be positive")
	}
	if cfg.Device.T9TimeoutMS <= 0 || cfg.Device.DebounceMS < 0 {
		return errors.New("device timing values must be positive")
	}
	rows, cols := len(cfg.Device.MatrixRowPins), len(cfg.Device.MatrixColPins)
	if rows != cols || (rows != 0 && rows != 4) {
		return errors.New("device matrix pins must be 4 rows and 4 columns, or absent")
	}
	if cfg.Link.Enabled && cfg.Link.Listen == "" {
		return errors.New("link.listen is required when the link is enabled")
	}
	if cfg.Outbox.Enabled && cfg.Outbox.Dir == "" {
		return errors.New("outbox.dir is required when the outbox is enabled")
	}
	return nil
}
