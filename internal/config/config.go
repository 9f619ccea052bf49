package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/storehouse"
)

type Config struct {
	Workload   WorkloadConfig    `toml:"workload"`
	Components []ComponentConfig `toml:"component"`
	Logging    LoggingConfig     `toml:"logging"`
}

type WorkloadConfig struct {
	Workers        int   `toml:"workers"`
	Entities       int   `toml:"entities"`
	Regions        int   `toml:"regions"`
	Rounds         int   `toml:"rounds"`
	Seed           int64 `toml:"seed"`
	TableCapacity  int   `toml:"table_capacity"`
	SparseCapacity int   `toml:"sparse_capacity"`
}

type ComponentConfig struct {
	Name    string `toml:"name"`
	Size    uint   `toml:"size"`
	Align   uint   `toml:"align"`
	Storage string `toml:"storage"` // "table" or "sparse_set"
	Drop    bool   `toml:"drop"`    // count drops for this kind
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	// Component lists replace the defaults wholesale rather than merging.
	cfg.Components = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Components == nil {
		cfg.Components = Defaults().Components
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Workload: WorkloadConfig{
			Workers:  4,
			Entities: 10000,
			Regions:  2,
			Rounds:   5000,
			Seed:     1,
		},
		Components: []ComponentConfig{
			{Name: "position", Size: 8, Align: 4, Storage: "table"},
			{Name: "velocity", Size: 8, Align: 4, Storage: "table"},
			{Name: "health", Size: 8, Align: 8, Storage: "table", Drop: true},
			{Name: "frozen", Size: 0, Align: 1, Storage: "sparse_set"},
			{Name: "target", Size: 16, Align: 8, Storage: "sparse_set", Drop: true},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	w := c.Workload
	if w.Workers < 1 {
		errs = append(errs, fmt.Errorf("workload.workers must be at least 1, got %d", w.Workers))
	}
	if w.Entities < 1 {
		errs = append(errs, fmt.Errorf("workload.entities must be at least 1, got %d", w.Entities))
	}
	if w.Regions < 1 {
		errs = append(errs, fmt.Errorf("workload.regions must be at least 1, got %d", w.Regions))
	}
	if w.Rounds < 0 {
		errs = append(errs, fmt.Errorf("workload.rounds must not be negative, got %d", w.Rounds))
	}

	tables := 0
	for i, comp := range c.Components {
		if comp.Align == 0 || comp.Align&(comp.Align-1) != 0 {
			errs = append(errs, fmt.Errorf("component[%d] %q: align %d is not a power of two", i, comp.Name, comp.Align))
		} else if uintptr(comp.Align) > storehouse.MaxAlign {
			errs = append(errs, fmt.Errorf("component[%d] %q: align %d exceeds %d", i, comp.Name, comp.Align, storehouse.MaxAlign))
		} else if comp.Size%comp.Align != 0 {
			errs = append(errs, fmt.Errorf("component[%d] %q: size %d is not a multiple of align %d", i, comp.Name, comp.Size, comp.Align))
		}
		switch comp.Storage {
		case "table":
			tables++
		case "sparse_set":
		default:
			errs = append(errs, fmt.Errorf("component[%d] %q: unknown storage %q", i, comp.Name, comp.Storage))
		}
	}
	if tables < 2 {
		errs = append(errs, fmt.Errorf("need at least two table components, got %d", tables))
	}
	if tables > mask.MaxBits {
		errs = append(errs, fmt.Errorf("at most %d table components are supported, got %d", mask.MaxBits, tables))
	}
	return errors.Join(errs...)
}
