package assets

import (
	"context"
	"testing"

	internal_auditlog "assettracker/internal/auditlog"
	"assettracker/internal/test/dbtest"
	"assettracker/pkg/auditlog"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*AssetService, *AssetsRepository) {
	t.Helper()
	r := dbtest.New(t)
	store := NewRepository(r)
	audit := auditlog.NewAuditLog(internal_auditlog.NewRepository(r), zap.NewNop())
	return NewAssetService(store, audit), store
}

func TestAssetLifecycle(t *testing.T) {
	s, _ := newTestService(t)
	assertAssetLifecycle(t, s)
}

func TestAssetLifecyclePostgres(t *testing.T) {
	r := dbtest.NewPostgres(t)
	audit := auditlog.NewAuditLog(internal_auditlog.NewRepository(r), zap.NewNop())
	s := NewAssetService(NewRepository(r), audit)

	assertAssetLifecycle(t, s)

	history, err := s.GetAssetHistory(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

// assertAssetLifecycle walks an empty store through create, checkout, checkin and delete.
func assertAssetLifecycle(t *testing.T, s *AssetService) {
	t.Helper()
	ctx := context.Background()

	list, err := s.ListAssets(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Assets)
	assert.Equal(t, models.Stats{}, list.Stats)

	created, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, metadata.StatusIn, created.Status)
	assert.Equal(t, "Warehouse", created.Location)

	list, err = s.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, list.Assets, 1)
	assert.Equal(t, "Laptop", list.Assets[0].Description)
	assert.Equal(t, "SN1", list.Assets[0].SerialNumber)
	assert.Equal(t, metadata.StatusIn, list.Assets[0].Status)
	assert.Equal(t, models.Stats{Total: 1, InStock: 1, OutStock: 0}, list.Stats)

	_, err = s.UpdateAsset(ctx, created.ID, models.CheckoutRequest("Clinic A"))
	require.NoError(t, err)

	list, err = s.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, list.Assets, 1)
	assert.Equal(t, metadata.StatusOut, list.Assets[0].Status)
	assert.Equal(t, "Clinic A", list.Assets[0].Location)
	assert.Equal(t, models.Stats{Total: 1, InStock: 0, OutStock: 1}, list.Stats)

	_, err = s.UpdateAsset(ctx, created.ID, models.CheckinRequest())
	require.NoError(t, err)

	list, err = s.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, list.Assets, 1)
	assert.Equal(t, metadata.StatusIn, list.Assets[0].Status)
	assert.Equal(t, "Warehouse", list.Assets[0].Location)
	assert.Equal(t, models.Stats{Total: 1, InStock: 1, OutStock: 0}, list.Stats)

	require.NoError(t, s.RemoveAsset(ctx, created.ID))

	list, err = s.ListAssets(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Assets)
	assert.Equal(t, models.Stats{}, list.Stats)
}

func TestCreateAssetRejectsEmptyFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	tests := []struct {
		name  string
		req   models.CreateAssetRequest
		field string
	}{
		{"empty description", models.CreateAssetRequest{Description: "", SerialNumber: "SN1"}, "description"},
		{"empty serial", models.CreateAssetRequest{Description: "Laptop", SerialNumber: ""}, "serial_number"},
		{"blank serial", models.CreateAssetRequest{Description: "Laptop", SerialNumber: "   "}, "serial_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateAsset(ctx, tt.req)

			var validationErr *custom_error.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	list, err := s.ListAssets(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Assets)
}

func TestCreateAssetTrimsInput(t *testing.T) {
	s, _ := newTestService(t)

	created, err := s.CreateAsset(context.Background(), models.CreateAssetRequest{Description: "  Laptop ", SerialNumber: " SN1"})

	require.NoError(t, err)
	assert.Equal(t, "Laptop", created.Description)
	assert.Equal(t, "SN1", created.SerialNumber)
}

func TestDuplicateSerialNumbersAreAccepted(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	first, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)
	second, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestListAssetsKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	var ids []string
	for _, serial := range []string{"SN3", "SN1", "SN2", "SN0"} {
		created, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Device", SerialNumber: serial})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	list, err := s.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, list.Assets, 4)
	for i, asset := range list.Assets {
		assert.Equal(t, ids[i], asset.ID)
	}
}

func TestUpdateAssetValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)

	_, err = s.UpdateAsset(ctx, created.ID, models.UpdateAssetRequest{})
	assert.True(t, custom_error.IsValidation(err))

	bogus := metadata.Status("Lost")
	_, err = s.UpdateAsset(ctx, created.ID, models.UpdateAssetRequest{Status: &bogus})
	assert.True(t, custom_error.IsValidation(err))

	blank := "  "
	_, err = s.UpdateAsset(ctx, created.ID, models.UpdateAssetRequest{Location: &blank})
	assert.True(t, custom_error.IsValidation(err))

	stored, err := s.GetAsset(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *stored)
}

func TestUpdateAssetNormalisesStatusAndMergesFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)

	lower := metadata.Status("out")
	updated, err := s.UpdateAsset(ctx, created.ID, models.UpdateAssetRequest{Status: &lower})
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusOut, updated.Status)
	assert.Equal(t, "Warehouse", updated.Location)

	location := "Ward 3"
	updated, err = s.UpdateAsset(ctx, created.ID, models.UpdateAssetRequest{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusOut, updated.Status)
	assert.Equal(t, "Ward 3", updated.Location)
}

func TestUnknownIdIsNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.GetAsset(ctx, "missing")
	assert.True(t, custom_error.IsNotFound(err))

	_, err = s.UpdateAsset(ctx, "missing", models.CheckinRequest())
	assert.True(t, custom_error.IsNotFound(err))

	err = s.RemoveAsset(ctx, "missing")
	assert.True(t, custom_error.IsNotFound(err))
}

func TestRepeatedDeleteIsNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveAsset(ctx, created.ID))
	err = s.RemoveAsset(ctx, created.ID)

	assert.True(t, custom_error.IsNotFound(err))
}

func TestAssetHistory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created, err := s.CreateAsset(ctx, models.CreateAssetRequest{Description: "Laptop", SerialNumber: "SN1"})
	require.NoError(t, err)

	_, err = s.UpdateAsset(ctx, created.ID, models.CheckoutRequest("Clinic A"))
	require.NoError(t, err)
	_, err = s.UpdateAsset(ctx, created.ID, models.CheckinRequest())
	require.NoError(t, err)
	location := "Shelf 2"
	_, err = s.UpdateAsset(ctx, created.ID, models.UpdateAssetRequest{Location: &location})
	require.NoError(t, err)
	require.NoError(t, s.RemoveAsset(ctx, created.ID))

	history, err := s.GetAssetHistory(ctx, created.ID)
	require.NoError(t, err)

	var actions []string
	for _, entry := range history {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{"create", "checkout", "checkin", "update", "delete"}, actions)
	assert.Equal(t, "Clinic A", history[1].Data["location"])
}

func TestAssetHistoryUnknownIdIsEmpty(t *testing.T) {
	s, _ := newTestService(t)

	history, err := s.GetAssetHistory(context.Background(), "never-existed")

	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSchemaRejectsEmptyDescription(t *testing.T) {
	_, store := newTestService(t)

	_, err := store.PersistAsset(context.Background(), models.Asset{
		ID:           "manual",
		Description:  "",
		SerialNumber: "SN1",
		Status:       metadata.StatusIn,
		Location:     metadata.DefaultLocation,
	})

	assert.True(t, custom_error.IsValidation(err))
}

func TestSchemaRejectsDuplicateId(t *testing.T) {
	ctx := context.Background()
	_, store := newTestService(t)
	asset := models.Asset{ID: "fixed", Description: "Laptop", SerialNumber: "SN1", Status: metadata.StatusIn, Location: "Warehouse"}

	_, err := store.PersistAsset(ctx, asset)
	require.NoError(t, err)
	_, err = store.PersistAsset(ctx, asset)

	var uniqueErr *custom_error.UniqueViolationError
	assert.ErrorAs(t, err, &uniqueErr)
}

func TestPing(t *testing.T) {
	s, _ := newTestService(t)

	assert.NoError(t, s.Ping(context.Background()))
}
