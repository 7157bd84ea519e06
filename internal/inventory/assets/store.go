package assets

import (
	"context"

	"assettracker/pkg/models"
)

// Store is the persistent asset collection. Implementations return
// *custom_error.NotFoundError for unknown ids.
type Store interface {
	GetAssetList(ctx context.Context) ([]models.Asset, error)
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	PersistAsset(ctx context.Context, asset models.Asset) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error)
	RemoveAsset(ctx context.Context, id string) (*models.Asset, error)
	Ping(ctx context.Context) error
}
