package cdvd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// fileConfig is the on-disk form of Config. Unset fields keep their defaults.
type fileConfig struct {
	CacheBits      *int `json:"cache_bits"`
	PrefetchBlocks *int `json:"prefetch_blocks"`
	ReadTries      *int `json:"read_tries"`
	IdleWait       *int `json:"idle_wait_ms"`
	PrefetchWait   *int `json:"prefetch_wait_ms"`
	NotReadyPoll   *int `json:"not_ready_poll_ms"`
	CompletionPoll *int `json:"completion_poll_ms"`
}

func DefaultConfig() Config {
	return Config{
		CacheBits:      constant.CacheBits,
		PrefetchBlocks: constant.PrefetchBlocks,
		ReadTries:      constant.ReadTries,
		IdleWait:       constant.IdleWait,
		PrefetchWait:   constant.PrefetchWait,
		NotReadyPoll:   constant.NotReadyPoll,
		CompletionPoll: constant.CompletionPoll,
		LogWriter:      os.Stderr,
	}
}

// LoadConfig reads a JSON file, comments and trailing commas allowed, over
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errmsg.InvalidConfig, "read %s: %v", path, err)
	}
	cfg, err := parseConfig(DefaultConfig(), data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func parseConfig(cfg Config, data []byte) (Config, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, errors.Wrapf(errmsg.InvalidConfig, "invalid JSONC: %v", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(std, &fc); err != nil {
		return Config{}, errors.Wrapf(errmsg.InvalidConfig, "invalid JSON: %v", err)
	}
	cfg = mergeConfig(cfg, fc)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeConfig(cfg Config, fc fileConfig) Config {
	setInt(&cfg.CacheBits, fc.CacheBits)
	setInt(&cfg.PrefetchBlocks, fc.PrefetchBlocks)
	setInt(&cfg.ReadTries, fc.ReadTries)
	setMillis(&cfg.IdleWait, fc.IdleWait)
	setMillis(&cfg.PrefetchWait, fc.PrefetchWait)
	setMillis(&cfg.NotReadyPoll, fc.NotReadyPoll)
	setMillis(&cfg.CompletionPoll, fc.CompletionPoll)
	return cfg
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setMillis(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Millisecond
	}
}

func (cfg Config) Validate() error {
	switch {
	case cfg.CacheBits < constant.MinCacheBits || cfg.CacheBits > constant.MaxCacheBits:
		return errors.Wrapf(errmsg.InvalidConfig, "cache bits %d not in [%d, %d]",
			cfg.CacheBits, constant.MinCacheBits, constant.MaxCacheBits)
	case cfg.PrefetchBlocks < 0:
		return errors.Wrapf(errmsg.InvalidConfig, "prefetch blocks %d", cfg.PrefetchBlocks)
	case cfg.ReadTries < 1:
		return errors.Wrapf(errmsg.InvalidConfig, "read tries %d", cfg.ReadTries)
	case cfg.IdleWait <= 0, cfg.PrefetchWait <= 0, cfg.NotReadyPoll <= 0, cfg.CompletionPoll <= 0:
		return errors.Wrap(errmsg.InvalidConfig, "wait intervals must be positive")
	}
	return nil
}
