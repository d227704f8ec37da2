package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/townkart/townkart-backend/internal/address"
	"github.com/townkart/townkart-backend/internal/assignments"
	"github.com/townkart/townkart-backend/internal/auth"
	"github.com/townkart/townkart-backend/internal/notifications"
	"github.com/townkart/townkart-backend/internal/partners"
	"github.com/townkart/townkart-backend/internal/users"
	pkgAuth "github.com/townkart/townkart-backend/pkg/auth"
	"github.com/townkart/townkart-backend/pkg/auth/session"
	"github.com/townkart/townkart-backend/pkg/config"
	"github.com/townkart/townkart-backend/pkg/db/models"
	"github.com/townkart/townkart-backend/pkg/enums"
	"github.com/townkart/townkart-backend/pkg/logger"
	"github.com/townkart/townkart-backend/pkg/pagination"
	"github.com/townkart/townkart-backend/pkg/redis"
	"github.com/townkart/townkart-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubAdminRegisterService struct{}

func (stubAdminRegisterService) Register(ctx context.Context, req auth.AdminRegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubPartnersService struct{}

func (stubPartnersService) GetPartner(ctx context.Context, partnerID uuid.UUID) (*models.User, error) {
	return &models.User{ID: partnerID, Role: enums.UserRoleDeliveryPartner}, nil
}

func (stubPartnersService) SetOnline(ctx context.Context, partnerID uuid.UUID, online bool) error {
	return nil
}

func (stubPartnersService) UpdateLocation(ctx context.Context, partnerID uuid.UUID, location types.GeographyPoint) error {
	return nil
}

func (stubPartnersService) AvailabilityStats(ctx context.Context) (*partners.AvailabilityStats, error) {
	return &partners.AvailabilityStats{}, nil
}

func (stubPartnersService) GetSettings(ctx context.Context, partnerID uuid.UUID) (*models.PartnerSettings, error) {
	return &models.PartnerSettings{PartnerID: partnerID}, nil
}

func (stubPartnersService) UpdateSettings(ctx context.Context, partnerID uuid.UUID, input partners.UpdateSettingsInput) (*models.PartnerSettings, error) {
	return &models.PartnerSettings{PartnerID: partnerID}, nil
}

type stubAssignmentsService struct{}

func (stubAssignmentsService) AutoAssign(ctx context.Context, input assignments.AutoAssignInput) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{OrderID: input.OrderID}, nil
}

func (stubAssignmentsService) ManualAssign(ctx context.Context, input assignments.ManualAssignInput) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{OrderID: input.OrderID}, nil
}

func (stubAssignmentsService) Accept(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{ID: assignmentID}, nil
}

func (stubAssignmentsService) Reject(ctx context.Context, input assignments.RejectInput) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{ID: input.AssignmentID}, nil
}

func (stubAssignmentsService) MarkPickedUp(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{ID: assignmentID}, nil
}

func (stubAssignmentsService) MarkDelivered(ctx context.Context, input assignments.DeliverInput) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{ID: input.AssignmentID}, nil
}

func (stubAssignmentsService) Rate(ctx context.Context, input assignments.RateInput) (*models.OrderAssignment, error) {
	return &models.OrderAssignment{ID: input.AssignmentID}, nil
}

func (stubAssignmentsService) CurrentForPartner(ctx context.Context, partnerID uuid.UUID) (*models.OrderAssignment, error) {
	return nil, nil
}

func (stubAssignmentsService) HistoryForPartner(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (*assignments.HistoryPage, error) {
	return &assignments.HistoryPage{}, nil
}

func (stubAssignmentsService) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAssignment, error) {
	return nil, nil
}

func (stubAssignmentsService) StatsForPartner(ctx context.Context, partnerID uuid.UUID) (*assignments.PartnerStats, error) {
	return &assignments.PartnerStats{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) DeliveryCompleted(ctx context.Context, event assignments.DeliveryCompletedEvent) error {
	return nil
}

func (stubNotificationsService) AssignmentStuck(ctx context.Context, input notifications.AssignmentStuckInput) error {
	return nil
}

type stubAddressService struct{}

func (stubAddressService) Suggest(ctx context.Context, req address.SuggestRequest) ([]address.Suggestion, error) {
	return nil, nil
}

func (stubAddressService) Resolve(ctx context.Context, req address.ResolveRequest) (types.Address, error) {
	return types.Address{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubAdminRegisterService{},
		stubPartnersService{},
		stubAssignmentsService{},
		stubNotificationsService{},
		stubAddressService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestPartnerGroupRequiresPartnerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/partner/ping", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	partner := httptest.NewRequest(http.MethodGet, "/api/v1/partner/ping", nil)
	partner.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleDeliveryPartner))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, partner)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for partner got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleShopOwner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderAssignRequiresDispatcherRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/orders/" + uuid.NewString() + "/assignments"

	partner := httptest.NewRequest(http.MethodGet, target, nil)
	partner.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleDeliveryPartner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, partner)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for partner got %d", resp.Code)
	}

	for _, role := range []enums.UserRole{enums.UserRoleShopOwner, enums.UserRoleAdmin} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", role, resp.Code)
		}
	}
}

func TestAssignmentActionsRequirePartnerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/assignments/" + uuid.NewString() + "/pickup"

	customer := httptest.NewRequest(http.MethodPost, target, nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer pickup got %d", resp.Code)
	}

	partner := httptest.NewRequest(http.MethodPost, target, nil)
	partner.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleDeliveryPartner))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, partner)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for partner pickup got %d", resp.Code)
	}
}

func TestAdminRegisterHiddenInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "production"
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusCreated || resp.Code == http.StatusOK {
		t.Fatalf("admin register should not be mounted in production, got %d", resp.Code)
	}
}
