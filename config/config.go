package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chargeplan/chargeplan/core/metrics"
	"github.com/chargeplan/chargeplan/core/model"
	"github.com/chargeplan/chargeplan/infra/glpk"
)

// Config is the full planner configuration.
type Config struct {
	Fleet    FleetConfig     `json:"fleet"`
	Stations []StationConfig `json:"stations"`
	Run      model.RunParams `json:"run"`
	Solver   glpk.Config     `json:"solver"`
	Metrics  metrics.Config  `json:"metrics"`
	Logging  LoggingConfig   `json:"logging"`
}

// Load reads a JSON or YAML config file, applies K_-prefixed environment
// overrides, then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Run.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Run.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, st := range cfg.Stations {
		if st.ID == "" {
			return nil, fmt.Errorf("station with empty id")
		}
		if seen[st.ID] {
			return nil, fmt.Errorf("station %s listed twice", st.ID)
		}
		seen[st.ID] = true
	}
	return &cfg, nil
}

// StationConfig is one candidate station with its ordered incremental
// slot cost menu. An empty menu forbids installation there.
type StationConfig struct {
	ID        string    `json:"id"`
	SlotCosts []float64 `json:"slot_costs"`
}
