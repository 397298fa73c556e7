package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

type Custom struct {
	Node struct {
		MemoryCacheSize int `toml:"memory-cache-size"`
		CacheTTL        int `toml:"cache-ttl"`
	} `toml:"node"`
	Storage struct {
		ValueLogGC          bool `toml:"value-log-gc"`
		MaxCompactionLevels int  `toml:"max-compaction-levels"`
	} `toml:"storage"`
	RPC struct {
		Port    int  `toml:"port"`
		Runtime bool `toml:"runtime"`
	} `toml:"rpc"`
	Probe struct {
		Timeout      int   `toml:"timeout"`
		Retries      int   `toml:"retries"`
		MaxImageSize int64 `toml:"max-image-size"`
		AllowPrivate bool  `toml:"allow-private"`
	} `toml:"probe"`
}

func Initialize(file string) (*Custom, error) {
	f, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var config Custom
	err = toml.Unmarshal(f, &config)
	if err != nil {
		return nil, err
	}
	config.fillDefaults()
	return &config, nil
}

// Default is used by the command line when no configuration file is given.
func Default() *Custom {
	var config Custom
	config.fillDefaults()
	return &config
}

func (c *Custom) fillDefaults() {
	if c.Node.MemoryCacheSize == 0 {
		c.Node.MemoryCacheSize = 32
	}
	if c.Node.CacheTTL == 0 {
		c.Node.CacheTTL = 3600 * 2
	}
	if c.Storage.MaxCompactionLevels == 0 {
		c.Storage.MaxCompactionLevels = 7
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = 20
	}
	if c.Probe.Retries == 0 {
		c.Probe.Retries = 3
	}
	if c.Probe.MaxImageSize == 0 {
		c.Probe.MaxImageSize = 64 << 20
	}
}

func (c *Custom) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.Timeout) * time.Second
}
