package assets

import (
	"context"
	"fmt"

	"assettracker/internal/repository"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const assetsTable = "assets"

type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

// selector is satisfied by both *goqu.Database and *goqu.TxDatabase.
type selector interface {
	From(cols ...interface{}) *goqu.SelectDataset
}

func (r *AssetsRepository) getAssetQuery(db selector) *goqu.SelectDataset {
	return db.From(goqu.T(assetsTable).As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.description").As("description"),
			goqu.I("a.serial_number").As("serial_number"),
			goqu.I("a.status").As("status"),
			goqu.I("a.location").As("location"),
		)
}

// GetAssetList returns every asset in creation order. Ids are time ordered, so
// ordering by id is ordering by creation.
func (r *AssetsRepository) GetAssetList(ctx context.Context) ([]models.Asset, error) {
	query := r.getAssetQuery(r.repository.GoquDBWrapper).
		Order(goqu.I("a.id").Asc())

	assets := []models.Asset{}
	if err := query.Executor().ScanStructsContext(ctx, &assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

func (r *AssetsRepository) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return r.fetchAssetByCondition(ctx, r.repository.GoquDBWrapper, goqu.Ex{"a.id": id}, id)
}

func (r *AssetsRepository) fetchAssetByCondition(ctx context.Context, db selector, condition goqu.Ex, id string) (*models.Asset, error) {
	var asset models.Asset

	found, err := r.getAssetQuery(db).
		Where(condition).
		Executor().
		ScanStructContext(ctx, &asset)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch asset: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("asset", id)
	}

	return &asset, nil
}

func (r *AssetsRepository) PersistAsset(ctx context.Context, asset models.Asset) (*models.Asset, error) {
	query := r.repository.GoquDBWrapper.Insert(assetsTable).
		Rows(goqu.Record{
			"id":            asset.ID,
			"description":   asset.Description,
			"serial_number": asset.SerialNumber,
			"status":        asset.Status,
			"location":      asset.Location,
		})

	if _, err := query.Executor().ExecContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert asset record: %w", custom_error.FromDriverError("Unable to store asset", err))
	}

	return r.GetAsset(ctx, asset.ID)
}

// UpdateAsset applies the non-nil fields of req and returns the stored row.
func (r *AssetsRepository) UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error) {
	record := goqu.Record{"updated_at": goqu.L("CURRENT_TIMESTAMP")}
	if req.Status != nil {
		record["status"] = *req.Status
	}
	if req.Location != nil {
		record["location"] = *req.Location
	}

	var asset *models.Asset
	err := repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		result, err := tx.Update(assetsTable).
			Set(record).
			Where(goqu.C("id").Eq(id)).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to update asset: %w", custom_error.FromDriverError("Unable to update asset", err))
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to retrieve affected rows: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("asset", id)
		}

		asset, err = r.fetchAssetByCondition(ctx, tx, goqu.Ex{"a.id": id}, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// RemoveAsset deletes the asset permanently and returns the removed record.
func (r *AssetsRepository) RemoveAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset *models.Asset
	err := repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		asset, err = r.fetchAssetByCondition(ctx, tx, goqu.Ex{"a.id": id}, id)
		if err != nil {
			return err
		}

		result, err := tx.Delete(assetsTable).
			Where(goqu.C("id").Eq(id)).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete asset: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to retrieve affected rows: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("asset", id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *AssetsRepository) Ping(ctx context.Context) error {
	return r.repository.Ping(ctx)
}
