package models

import "assettracker/pkg/metadata"

type Stats struct {
	Total    int `json:"total"`
	InStock  int `json:"in_stock"`
	OutStock int `json:"out_stock"`
}

// NewStats counts a snapshot. Assets with an unknown status are counted as out of stock
// so that Total always equals InStock + OutStock.
func NewStats(assets []Asset) Stats {
	stats := Stats{Total: len(assets)}
	for _, asset := range assets {
		if asset.Status == metadata.StatusIn {
			stats.InStock++
		}
	}
	stats.OutStock = stats.Total - stats.InStock

	return stats
}
