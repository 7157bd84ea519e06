package models

import "assettracker/pkg/metadata"

type CreateAssetRequest struct {
	Description  string `json:"description" validate:"notblank"`
	SerialNumber string `json:"serial_number" validate:"notblank"`
}

// UpdateAssetRequest carries a partial update; nil fields are left untouched.
type UpdateAssetRequest struct {
	Status   *metadata.Status `json:"status,omitempty"`
	Location *string          `json:"location,omitempty"`
}

func (r UpdateAssetRequest) IsEmpty() bool {
	return r.Status == nil && r.Location == nil
}

func CheckoutRequest(location string) UpdateAssetRequest {
	status := metadata.StatusOut
	return UpdateAssetRequest{Status: &status, Location: &location}
}

func CheckinRequest() UpdateAssetRequest {
	status := metadata.StatusIn
	location := metadata.DefaultLocation
	return UpdateAssetRequest{Status: &status, Location: &location}
}
