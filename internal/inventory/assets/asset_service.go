package assets

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"assettracker/pkg/auditlog"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

type AssetService struct {
	store    Store
	auditLog *auditlog.Auditlog
	validate *validator.Validate
}

func NewAssetService(store Store, auditLog *auditlog.Auditlog) *AssetService {
	return &AssetService{
		store:    store,
		auditLog: auditLog,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ListAssets returns the collection together with stats computed from the same snapshot.
func (s *AssetService) ListAssets(ctx context.Context) (models.AssetList, error) {
	assets, err := s.store.GetAssetList(ctx)
	if err != nil {
		return models.AssetList{}, err
	}

	return models.NewAssetList(assets), nil
}

func (s *AssetService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return s.store.GetAsset(ctx, id)
}

// CreateAsset stores a new asset checked in at the warehouse.
func (s *AssetService) CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)

	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate asset id: %w", err)
	}

	asset, err := s.store.PersistAsset(ctx, models.Asset{
		ID:           id.String(),
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		Status:       metadata.StatusIn,
		Location:     metadata.DefaultLocation,
	})
	if err != nil {
		return nil, err
	}

	s.auditLog.Log(ctx, "create", map[string]interface{}{
		"description":   asset.Description,
		"serial_number": asset.SerialNumber,
		"location":      asset.Location,
		"msg":           "Asset created successfully",
	}, asset)

	return asset, nil
}

// UpdateAsset merges the given fields. Any status/location combination is accepted.
func (s *AssetService) UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error) {
	if req.IsEmpty() {
		return nil, custom_error.NewValidationError("", "at least one of status or location must be provided")
	}

	if req.Status != nil {
		status, err := metadata.NewStatus(string(*req.Status))
		if err != nil {
			return nil, custom_error.NewValidationError("status", err.Error())
		}
		req.Status = &status
	}

	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return nil, custom_error.NewValidationError("location", "must not be empty")
		}
		req.Location = &location
	}

	asset, err := s.store.UpdateAsset(ctx, id, req)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"status":   asset.Status,
		"location": asset.Location,
	}
	s.auditLog.Log(ctx, updateAction(req), data, asset)

	return asset, nil
}

func updateAction(req models.UpdateAssetRequest) string {
	if req.Status == nil {
		return "update"
	}
	switch *req.Status {
	case metadata.StatusOut:
		return "checkout"
	case metadata.StatusIn:
		return "checkin"
	}
	return "update"
}

func (s *AssetService) RemoveAsset(ctx context.Context, id string) error {
	asset, err := s.store.RemoveAsset(ctx, id)
	if err != nil {
		return err
	}

	s.auditLog.Log(ctx, "delete", map[string]interface{}{
		"serial_number": asset.SerialNumber,
		"msg":           "Asset removed permanently",
	}, asset)

	return nil
}

// GetAssetHistory returns the audit trail of an asset, oldest first. The trail
// outlives the asset itself.
func (s *AssetService) GetAssetHistory(ctx context.Context, id string) ([]models.AuditLog, error) {
	return s.auditLog.History(ctx, &models.Asset{ID: id})
}

func (s *AssetService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *AssetService) validateStruct(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return custom_error.NewValidationError(fe.Field(), "must not be empty")
	}

	return custom_error.NewValidationError("", err.Error())
}
