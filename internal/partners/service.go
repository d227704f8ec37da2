package partners

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	"github.com/townkart/townkart-backend/pkg/types"
)

// Service exposes the partner registry operations used by controllers and
// the dispatcher.
type Service interface {
	GetPartner(ctx context.Context, partnerID uuid.UUID) (*models.User, error)
	SetOnline(ctx context.Context, partnerID uuid.UUID, online bool) error
	UpdateLocation(ctx context.Context, partnerID uuid.UUID, location types.GeographyPoint) error
	AvailabilityStats(ctx context.Context) (*AvailabilityStats, error)
	GetSettings(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error)
	UpdateSettings(ctx context.Context, partnerID uuid.UUID, input UpdateSettingsInput) (*models.PartnerSettings, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the partner registry service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("partners repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) GetPartner(ctx context.Context, partnerID uuid.UUID) (*models.User, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	partner, err := s.repo.FindPartner(ctx, partnerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}
	if partner.Role != enums.UserRoleDeliveryPartner {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is not a delivery partner")
	}
	return partner, nil
}

func (s *service) SetOnline(ctx context.Context, partnerID uuid.UUID, online bool) error {
	if _, err := s.GetPartner(ctx, partnerID); err != nil {
		return err
	}
	if err := s.repo.SetOnline(ctx, partnerID, online, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update online flag")
	}
	return nil
}

func (s *service) UpdateLocation(ctx context.Context, partnerID uuid.UUID, location types.GeographyPoint) error {
	if location.Lat < -90 || location.Lat > 90 || location.Lng < -180 || location.Lng > 180 {
		return pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}
	if _, err := s.GetPartner(ctx, partnerID); err != nil {
		return err
	}
	if err := s.repo.UpdateLocation(ctx, partnerID, location, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return nil
}

func (s *service) AvailabilityStats(ctx context.Context) (*AvailabilityStats, error) {
	stats, err := s.repo.AvailabilityStats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load availability stats")
	}
	return stats, nil
}

func (s *service) GetSettings(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error) {
	if _, err := s.GetPartner(ctx, partnerID); err != nil {
		return nil, err
	}
	settings, err := s.repo.FindSettings(ctx, partnerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.PartnerSettings{PartnerID: partnerID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner settings")
	}
	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, partnerID uuid.UUID, input UpdateSettingsInput) (*models.PartnerSettings, error) {
	if _, err := s.GetPartner(ctx, partnerID); err != nil {
		return nil, err
	}
	if err := validateSettings(input); err != nil {
		return nil, err
	}

	settings := &models.PartnerSettings{
		PartnerID:           partnerID,
		WorkScheduleEnabled: input.WorkScheduleEnabled,
		WorkStartTime:       input.WorkStartTime,
		WorkEndTime:         input.WorkEndTime,
		WorkDays:            input.WorkDays,
		AutoAcceptOrders:    input.AutoAcceptOrders,
		MaxDeliveryRadiusKm: input.MaxDeliveryRadiusKm,
	}
	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save partner settings")
	}
	return settings, nil
}

func validateSettings(input UpdateSettingsInput) error {
	if input.WorkScheduleEnabled {
		if input.WorkStartTime == nil || input.WorkEndTime == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "work schedule requires start and end times")
		}
	}
	for _, value := range []*string{input.WorkStartTime, input.WorkEndTime} {
		if value == nil {
			continue
		}
		if _, err := ParseClock(*value); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "work times must be HH:MM").WithDetails(map[string]any{"value": *value})
		}
	}
	if input.WorkDays != nil {
		if _, err := ParseWorkDays(*input.WorkDays); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "work days must be comma-separated 1-7").WithDetails(map[string]any{"value": *input.WorkDays})
		}
	}
	if input.MaxDeliveryRadiusKm != nil && *input.MaxDeliveryRadiusKm <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max delivery radius must be positive")
	}
	return nil
}

// ParseClock parses an "HH:MM" wall-clock value into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// ParseWorkDays parses a comma-separated list of ISO weekday numbers.
func ParseWorkDays(value string) (map[time.Weekday]bool, error) {
	days := map[time.Weekday]bool{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid work day %q", part)
		}
		// ISO: 1 = Monday ... 7 = Sunday.
		if n == 7 {
			days[time.Sunday] = true
		} else {
			days[time.Weekday(n)] = true
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no work days in %q", value)
	}
	return days, nil
}

// WithinWorkSchedule reports whether now falls inside the partner's
// configured window. Partners without an enabled schedule always pass.
// Overnight windows (start > end) wrap past midnight.
func WithinWorkSchedule(settings *models.PartnerSettings, now time.Time) bool {
	if settings == nil || !settings.WorkScheduleEnabled {
		return true
	}
	if settings.WorkStartTime == nil || settings.WorkEndTime == nil {
		return true
	}

	start, err := ParseClock(*settings.WorkStartTime)
	if err != nil {
		return true
	}
	end, err := ParseClock(*settings.WorkEndTime)
	if err != nil {
		return true
	}

	if settings.WorkDays != nil {
		days, err := ParseWorkDays(*settings.WorkDays)
		if err == nil && !days[now.Weekday()] {
			return false
		}
	}

	minutes := now.Hour()*60 + now.Minute()
	if start <= end {
		return minutes >= start && minutes <= end
	}
	return minutes >= start || minutes <= end
}
