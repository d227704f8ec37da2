package partners

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/types"
)

// Repository defines persistence operations for the partner registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPartner(ctx context.Context, partnerID uuid.UUID) (*models.User, error)
	ListAvailablePartners(ctx context.Context) ([]models.User, error)
	ListOnlineBusyPartners(ctx context.Context) ([]models.User, error)
	SetBusy(ctx context.Context, partnerID uuid.UUID, now time.Time) error
	SetFree(ctx context.Context, partnerID uuid.UUID, now time.Time) error
	SetOnline(ctx context.Context, partnerID uuid.UUID, online bool, now time.Time) error
	UpdateLocation(ctx context.Context, partnerID uuid.UUID, location types.GeographyPoint, now time.Time) error
	AddEarnings(ctx context.Context, partnerID uuid.UUID, amount decimal.Decimal) error
	AvailabilityStats(ctx context.Context) (*AvailabilityStats, error)
	FindSettings(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error)
	UpsertSettings(ctx context.Context, settings *models.PartnerSettings) error
}
