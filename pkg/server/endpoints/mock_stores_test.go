package endpoints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockOrganizationsStore implements store.OrganizationsStore for testing using testify/mock
type MockOrganizationsStore struct {
	mock.Mock
}

func (m *MockOrganizationsStore) List(ctx context.Context, scope store.Scope, page store.Page) ([]model.Organization, int64, error) {
	args := m.Called(ctx, scope, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Organization), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrganizationsStore) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrganizationsStore) Create(ctx context.Context, org *model.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationsStore) Update(ctx context.Context, org *model.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) List(ctx context.Context, filter store.UserFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUsersStore) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersStore) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUsersStore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUsersStore) Delete(ctx context.Context, id, transferTo uuid.UUID) (*store.OwnershipTransfer, error) {
	args := m.Called(ctx, id, transferTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.OwnershipTransfer), args.Error(1)
}

// MockSessionsStore implements store.SessionsStore for testing using testify/mock
type MockSessionsStore struct {
	mock.Mock
}

func (m *MockSessionsStore) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionsStore) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionsStore) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSessionsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionsStore) DeleteForUser(ctx context.Context, userID uuid.UUID, keep uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, keep)
	return args.Get(0).(int64), args.Error(1)
}

// MockThreatModelsStore implements store.ThreatModelsStore for testing using testify/mock
type MockThreatModelsStore struct {
	mock.Mock
}

func (m *MockThreatModelsStore) List(ctx context.Context, filter store.ThreatModelFilter) ([]model.ThreatModel, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.ThreatModel), args.Get(1).(int64), args.Error(2)
}

func (m *MockThreatModelsStore) Get(ctx context.Context, id uuid.UUID, includeFindings bool) (*model.ThreatModel, error) {
	args := m.Called(ctx, id, includeFindings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThreatModel), args.Error(1)
}

func (m *MockThreatModelsStore) Create(ctx context.Context, tm *model.ThreatModel) error {
	args := m.Called(ctx, tm)
	return args.Error(0)
}

func (m *MockThreatModelsStore) Update(ctx context.Context, tm *model.ThreatModel) error {
	args := m.Called(ctx, tm)
	return args.Error(0)
}

func (m *MockThreatModelsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockThreatModelsStore) SetAssets(ctx context.Context, id uuid.UUID, assetIDs []uuid.UUID) error {
	args := m.Called(ctx, id, assetIDs)
	return args.Error(0)
}

func (m *MockThreatModelsStore) SetTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	args := m.Called(ctx, id, tagIDs)
	return args.Error(0)
}

// MockFindingsStore implements store.FindingsStore for testing using testify/mock
type MockFindingsStore struct {
	mock.Mock
}

func (m *MockFindingsStore) List(ctx context.Context, filter store.FindingFilter) ([]model.Finding, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Finding), args.Get(1).(int64), args.Error(2)
}

func (m *MockFindingsStore) Get(ctx context.Context, id uuid.UUID) (*model.Finding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Finding), args.Error(1)
}

func (m *MockFindingsStore) Create(ctx context.Context, findings ...*model.Finding) error {
	args := m.Called(ctx, findings)
	return args.Error(0)
}

func (m *MockFindingsStore) Update(ctx context.Context, finding *model.Finding) error {
	args := m.Called(ctx, finding)
	return args.Error(0)
}

func (m *MockFindingsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDesignReviewsStore implements store.DesignReviewsStore for testing using testify/mock
type MockDesignReviewsStore struct {
	mock.Mock
}

func (m *MockDesignReviewsStore) List(ctx context.Context, filter store.DesignReviewFilter) ([]model.DesignReview, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.DesignReview), args.Get(1).(int64), args.Error(2)
}

func (m *MockDesignReviewsStore) Get(ctx context.Context, id uuid.UUID) (*model.DesignReview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DesignReview), args.Error(1)
}

func (m *MockDesignReviewsStore) Create(ctx context.Context, review *model.DesignReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockDesignReviewsStore) Update(ctx context.Context, review *model.DesignReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockDesignReviewsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAssetsStore implements store.AssetsStore for testing using testify/mock
type MockAssetsStore struct {
	mock.Mock
}

func (m *MockAssetsStore) List(ctx context.Context, filter store.AssetFilter) ([]model.Asset, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetsStore) Get(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetsStore) Create(ctx context.Context, asset *model.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetsStore) Update(ctx context.Context, asset *model.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetsStore) SetTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	args := m.Called(ctx, id, tagIDs)
	return args.Error(0)
}

// MockTagsStore implements store.TagsStore for testing using testify/mock
type MockTagsStore struct {
	mock.Mock
}

func (m *MockTagsStore) List(ctx context.Context, scope store.Scope) ([]model.Tag, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagsStore) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagsStore) Create(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDiscoveredEndpointsStore implements store.DiscoveredEndpointsStore for testing using testify/mock
type MockDiscoveredEndpointsStore struct {
	mock.Mock
}

func (m *MockDiscoveredEndpointsStore) List(ctx context.Context, filter store.EndpointFilter) ([]model.DiscoveredEndpoint, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.DiscoveredEndpoint), args.Get(1).(int64), args.Error(2)
}

func (m *MockDiscoveredEndpointsStore) Get(ctx context.Context, id uuid.UUID) (*model.DiscoveredEndpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DiscoveredEndpoint), args.Error(1)
}

func (m *MockDiscoveredEndpointsStore) CreateBatch(ctx context.Context, endpoints []model.DiscoveredEndpoint) (int64, error) {
	args := m.Called(ctx, endpoints)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDiscoveredEndpointsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockThirdPartyReviewsStore implements store.ThirdPartyReviewsStore for testing using testify/mock
type MockThirdPartyReviewsStore struct {
	mock.Mock
}

func (m *MockThirdPartyReviewsStore) List(ctx context.Context, filter store.ThirdPartyReviewFilter) ([]model.ThirdPartyReview, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.ThirdPartyReview), args.Get(1).(int64), args.Error(2)
}

func (m *MockThirdPartyReviewsStore) Get(ctx context.Context, id uuid.UUID) (*model.ThirdPartyReview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThirdPartyReview), args.Error(1)
}

func (m *MockThirdPartyReviewsStore) Create(ctx context.Context, review *model.ThirdPartyReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockThirdPartyReviewsStore) Update(ctx context.Context, review *model.ThirdPartyReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockThirdPartyReviewsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportsStore implements store.ReportsStore for testing using testify/mock
type MockReportsStore struct {
	mock.Mock
}

func (m *MockReportsStore) List(ctx context.Context, filter store.ReportFilter) ([]model.Report, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Report), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportsStore) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportsStore) Create(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSecurityEventsStore implements store.SecurityEventsStore for testing using testify/mock
type MockSecurityEventsStore struct {
	mock.Mock
}

func (m *MockSecurityEventsStore) List(ctx context.Context, filter store.SecurityEventFilter) ([]model.SecurityEvent, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.SecurityEvent), args.Get(1).(int64), args.Error(2)
}

// MockDashboardStore implements store.DashboardStore for testing using testify/mock
type MockDashboardStore struct {
	mock.Mock
}

func (m *MockDashboardStore) Summary(ctx context.Context, scope store.Scope) (*store.Dashboard, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Dashboard), args.Error(1)
}
