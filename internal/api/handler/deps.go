package handler

import (
	"context"
	"time"

	"visitor-console/internal/auth"
	"visitor-console/internal/catalog"
	"visitor-console/internal/form"
	"visitor-console/internal/logcache"
	"visitor-console/internal/model"
	"visitor-console/internal/session"

	"go.uber.org/zap"
)

// BasePath prefixes every console route.
const BasePath = "/api/v1"

// Wildcard patterns the handlers read path parameters from.
const (
	formPattern           = BasePath + "/equipment-forms/*"
	adminEquipmentPattern = BasePath + "/admin/equipment/*"
	adminVisitsPattern    = BasePath + "/admin/visits/*"
	qualificationsPattern = BasePath + "/admin/qualifications/*"
)

// Remote is the subset of the visitor API the console calls.
type Remote interface {
	form.Submitter
	ListEquipment(ctx context.Context, limit int) ([]model.EquipmentLog, error)
	ListUserEquipment(ctx context.Context, userID string, limit int) ([]model.EquipmentLog, error)
	PatchEquipment(ctx context.Context, log model.EquipmentLog) error
	ListVisits(ctx context.Context, limit int) ([]model.Visit, error)
	ListUserVisits(ctx context.Context, userID string, limit int) ([]model.Visit, error)
	SubmitVisit(ctx context.Context, v model.Visit) error
	GetQualifications(ctx context.Context, userID string) (model.Qualifications, error)
	RefreshTrainings(ctx context.Context) error
	RegisterUser(ctx context.Context, reg model.Registration) error
}

// Deps holds all handler dependencies.
type Deps struct {
	Logger    *zap.Logger
	Catalog   *catalog.Catalog
	Form      *form.Definition
	Remote    Remote
	Auth      *auth.Authenticator
	Forms     *session.Store[*form.Controller]
	Equipment *logcache.Cache[model.EquipmentLog]
	Visits    *logcache.Cache[model.Visit]
	Limit     int
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
