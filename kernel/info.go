package kernel

import (
	"github.com/MixinNetwork/aspect/config"
	"github.com/VictoriaMetrics/fastcache"
)

func (calc *Calculator) Info() (map[string]interface{}, error) {
	var stats fastcache.Stats
	calc.cache.UpdateStats(&stats)
	info := map[string]interface{}{
		"version": config.BuildVersion,
		"uptime":  calc.Uptime().String(),
		"cache": map[string]interface{}{
			"entries": stats.EntriesCount,
			"bytes":   stats.BytesSize,
			"gets":    stats.GetCalls,
			"sets":    stats.SetCalls,
			"misses":  stats.Misses,
			"ttl":     calc.cacheTTL().String(),
		},
	}
	if calc.store == nil {
		return info, nil
	}
	count, err := calc.store.CountQueries()
	if err != nil {
		return info, err
	}
	info["queries"] = count
	return info, nil
}
