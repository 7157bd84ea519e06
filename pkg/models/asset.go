package models

import (
	"assettracker/pkg/metadata"
)

type Asset struct {
	ID           string          `json:"id" db:"id" bson:"_id"`
	Description  string          `json:"description" db:"description" bson:"description"`
	SerialNumber string          `json:"serial_number" db:"serial_number" bson:"serial_number"`
	Status       metadata.Status `json:"status" db:"status" bson:"status"`
	Location     string          `json:"location" db:"location" bson:"location"`
}

// IsAvailable reports whether the asset can be checked out.
func (a *Asset) IsAvailable() bool {
	return a.Status.IsAvailable()
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

// AssetList is the list response: the collection together with the stats derived from it.
type AssetList struct {
	Assets []Asset `json:"assets"`
	Stats  Stats   `json:"stats"`
}

func NewAssetList(assets []Asset) AssetList {
	if assets == nil {
		assets = []Asset{}
	}

	return AssetList{
		Assets: assets,
		Stats:  NewStats(assets),
	}
}
