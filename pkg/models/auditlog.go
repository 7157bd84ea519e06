package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           string                 `json:"id" db:"id" bson:"_id,omitempty"`
	ResourceID   string                 `json:"resource_id" db:"resource_id" bson:"resource_id"`
	ResourceType string                 `json:"resource_type" db:"resource_type" bson:"resource_type"`
	Action       string                 `json:"action" db:"action" bson:"action"` // create, update, checkout, checkin, delete
	DataRaw      string                 `json:"-" db:"data" bson:"-"`             // JSON as string
	Data         map[string]interface{} `json:"data" db:"-" bson:"data"`
	Actor        *string                `json:"actor,omitempty" db:"actor" bson:"actor,omitempty"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at" bson:"created_at"`
}

func (a *AuditLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
