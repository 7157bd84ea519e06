package auditlog

import (
	"context"

	"assettracker/pkg/models"
	"assettracker/pkg/security"

	"go.uber.org/zap"
)

type Repository interface {
	PersistLog(ctx context.Context, auditLog models.AuditLog, data interface{}) error
	GetResourceLog(ctx context.Context, id string, resourceType string) ([]models.AuditLog, error)
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Auditlog struct {
	r      Repository
	logger *zap.Logger
}

func NewAuditLog(repository Repository, logger *zap.Logger) *Auditlog {
	return &Auditlog{r: repository, logger: logger}
}

// Log records action on item. A failed write is logged and never returned: the audited
// operation has already been committed.
func (a *Auditlog) Log(ctx context.Context, action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	if subject := security.SubjectFromContext(ctx); subject != "" {
		auditLog.Actor = &subject
	}

	if err := a.r.PersistLog(ctx, auditLog, data); err != nil {
		a.logger.Error("Unable to create AuditLog entry",
			zap.String("resource_id", auditLog.ResourceID),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("Created AuditLog entry",
		zap.String("resource_id", auditLog.ResourceID),
		zap.String("action", action),
	)
}

func (a *Auditlog) History(ctx context.Context, item Auditable) ([]models.AuditLog, error) {
	view := item.CreateLogView()
	return a.r.GetResourceLog(ctx, view.ResourceID, view.ResourceType)
}
