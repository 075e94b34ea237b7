package engine

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/sorcerai/packfs/pkg/sandbox"
)

// ConfigFileName is the optional per-sandbox configuration file.
const ConfigFileName = "config.yaml"

// ChunkingConfig bounds snippet extraction from file content.
type ChunkingConfig struct {
	MaxChunkSize int `yaml:"maxChunkSize"`
	OverlapSize  int `yaml:"overlapSize"`
}

// Config is the engine's only environment beyond the base directory.
type Config struct {
	DefaultMaxResults     int            `yaml:"defaultMaxResults"`
	SemanticThreshold     float64        `yaml:"semanticThreshold"`
	EnableNaturalLanguage bool           `yaml:"enableNaturalLanguage"`
	Chunking              ChunkingConfig `yaml:"chunking"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMaxResults:     100,
		SemanticThreshold:     0.7,
		EnableNaturalLanguage: true,
		Chunking: ChunkingConfig{
			MaxChunkSize: 512,
			OverlapSize:  64,
		},
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DefaultMaxResults <= 0 {
		c.DefaultMaxResults = d.DefaultMaxResults
	}
	if c.SemanticThreshold <= 0 {
		c.SemanticThreshold = d.SemanticThreshold
	}
	if c.Chunking.MaxChunkSize <= 0 {
		c.Chunking.MaxChunkSize = d.Chunking.MaxChunkSize
	}
	if c.Chunking.OverlapSize < 0 {
		c.Chunking.OverlapSize = d.Chunking.OverlapSize
	}
}

// LoadConfig reads .packfs/config.yaml from the sandbox, returning defaults
// when the file is absent.
func LoadConfig(fs billy.Filesystem) (Config, error) {
	cfg := DefaultConfig()
	data, err := util.ReadFile(fs, sandbox.IndexDirName+"/"+ConfigFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
