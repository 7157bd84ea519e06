package dashboard

import (
	"strings"
	"testing"

	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmptyState(t *testing.T) {
	var b strings.Builder

	require.NoError(t, Render(&b, State{}))

	out := b.String()
	assert.Contains(t, out, "Total Assets: 0 | In Stock: 0 | Checked Out: 0")
	assert.Contains(t, out, "No assets yet.")
	assert.NotContains(t, out, "#")
}

func TestRenderAssets(t *testing.T) {
	assets := []models.Asset{
		{ID: "1", Description: "Laptop", SerialNumber: "SN1", Status: metadata.StatusIn, Location: "Warehouse"},
		{ID: "2", Description: "Monitor", SerialNumber: "SN2", Status: metadata.StatusOut, Location: "Clinic A"},
		{ID: "3", Description: "Scanner", SerialNumber: "SN3", Status: metadata.StatusOut, Location: "Ward 3"},
	}
	var b strings.Builder

	require.NoError(t, Render(&b, State{Assets: assets, Stats: models.NewStats(assets), Loading: true}))

	out := b.String()
	assert.Contains(t, out, "Loading...")
	assert.Contains(t, out, "Total Assets: 3 | In Stock: 1 | Checked Out: 2")
	assert.Contains(t, out, strings.Repeat("#", 13)+" ")
	assert.Contains(t, out, strings.Repeat("#", 26))
	assert.Contains(t, out, "checkout, delete")
	assert.Contains(t, out, "checkin, delete")
	assert.Contains(t, out, "Clinic A")
}
