package models

import (
	"testing"

	"assettracker/pkg/metadata"

	"github.com/stretchr/testify/assert"
)

func TestNewStats(t *testing.T) {
	tests := []struct {
		name     string
		assets   []Asset
		expected Stats
	}{
		{"empty collection", nil, Stats{}},
		{"single in", []Asset{{Status: metadata.StatusIn}}, Stats{Total: 1, InStock: 1}},
		{"single out", []Asset{{Status: metadata.StatusOut}}, Stats{Total: 1, OutStock: 1}},
		{
			"mixed",
			[]Asset{{Status: metadata.StatusIn}, {Status: metadata.StatusOut}, {Status: metadata.StatusIn}},
			Stats{Total: 3, InStock: 2, OutStock: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStats(tt.assets)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got.Total, got.InStock+got.OutStock)
		})
	}
}

func TestNewAssetListNeverNil(t *testing.T) {
	list := NewAssetList(nil)

	assert.NotNil(t, list.Assets)
	assert.Empty(t, list.Assets)
	assert.Equal(t, Stats{}, list.Stats)
}

func TestCheckinRequestResetsLocation(t *testing.T) {
	req := CheckinRequest()

	assert.Equal(t, metadata.StatusIn, *req.Status)
	assert.Equal(t, metadata.DefaultLocation, *req.Location)
	assert.False(t, req.IsEmpty())
	assert.True(t, UpdateAssetRequest{}.IsEmpty())
}
