package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

type StoreSuite struct {
	suite.Suite
	DB   *gorm.DB
	mock sqlmock.Sqlmock
	ctx  context.Context
}

func (s *StoreSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)
	s.mock = mock
	s.ctx = context.Background()

	s.DB, err = gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(s.T(), err)
}

func (s *StoreSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) TestUsersDelete_TransfersOwnership() {
	userID, adminID := uuid.New(), uuid.New()

	s.mock.ExpectBegin()
	for i, table := range ownedTables {
		s.mock.ExpectExec(`UPDATE ` + table + ` SET owner_id = \$1, updated_at = now\(\) WHERE owner_id = \$2`).
			WithArgs(adminID, userID).
			WillReturnResult(sqlmock.NewResult(0, int64(i)))
	}
	s.mock.ExpectExec(`DELETE FROM sessions WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	transfer, err := NewUsersStore(s.DB).Delete(s.ctx, userID, adminID)
	s.Require().NoError(err)
	s.Equal(userID, transfer.From)
	s.Equal(adminID, transfer.To)
	s.Equal(int64(0), transfer.Records["threat_models"])
	s.Equal(int64(5), transfer.Records["reports"])
}

func (s *StoreSuite) TestUsersDelete_RollsBackWhenUserMissing() {
	userID, adminID := uuid.New(), uuid.New()

	s.mock.ExpectBegin()
	for range ownedTables {
		s.mock.ExpectExec(`UPDATE `).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	s.mock.ExpectExec(`DELETE FROM sessions`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(`DELETE FROM users`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	_, err := NewUsersStore(s.DB).Delete(s.ctx, userID, adminID)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestUsersDelete_RollsBackOnTransferFailure() {
	userID, adminID := uuid.New(), uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE threat_models`).WillReturnResult(sqlmock.NewResult(0, 3))
	s.mock.ExpectExec(`UPDATE findings`).WillReturnError(&pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "findings_owner_id_fkey"})
	s.mock.ExpectRollback()

	_, err := NewUsersStore(s.DB).Delete(s.ctx, userID, adminID)
	s.ErrorIs(err, store.ErrInvalid)
}

func (s *StoreSuite) TestUsersDelete_SelfTransferRejected() {
	id := uuid.New()
	_, err := NewUsersStore(s.DB).Delete(s.ctx, id, id)
	s.ErrorIs(err, store.ErrInvalid)
}

func (s *StoreSuite) TestOrganizationsCreate_Conflict() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "organizations"`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "organizations_name_key"})
	s.mock.ExpectRollback()

	err := NewOrganizationsStore(s.DB).Create(s.ctx, &model.Organization{Name: "Acme", Slug: "acme"})
	s.ErrorIs(err, store.ErrConflict)
	s.Contains(err.Error(), "organizations_name_key")
}

func (s *StoreSuite) TestOrganizationsGet_NotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewOrganizationsStore(s.DB).Get(s.ctx, uuid.New())
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestFindingsUpdate_SyncsDesignReviews() {
	f := &model.Finding{
		Base:           model.Base{ID: uuid.New()},
		ThreatModelID:  uuid.New(),
		Title:          "Token replay",
		StrideCategory: model.StrideSpoofing,
		Severity:       model.SeverityHigh,
		Status:         model.FindingMitigated,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "findings" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(`SELECT count\(\*\) AS total`).
		WithArgs("OPEN", "IN_PROGRESS", f.ThreatModelID).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open"}).AddRow(2, 0))
	s.mock.ExpectExec(`UPDATE design_reviews SET status = \$1`).
		WithArgs("APPROVED", f.ThreatModelID, "APPROVED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(NewFindingsStore(s.DB).Update(s.ctx, f))
}

func (s *StoreSuite) TestFindingsUpdate_OpenFindingRequestsChanges() {
	f := &model.Finding{Base: model.Base{ID: uuid.New()}, ThreatModelID: uuid.New(), Status: model.FindingOpen}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "findings" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(`SELECT count\(\*\) AS total`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open"}).AddRow(3, 1))
	s.mock.ExpectExec(`UPDATE design_reviews SET status = \$1`).
		WithArgs("CHANGES_REQUESTED", f.ThreatModelID, "CHANGES_REQUESTED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(NewFindingsStore(s.DB).Update(s.ctx, f))
}

func (s *StoreSuite) TestFindingsUpdate_NotFound() {
	f := &model.Finding{Base: model.Base{ID: uuid.New()}, ThreatModelID: uuid.New()}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "findings" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	s.ErrorIs(NewFindingsStore(s.DB).Update(s.ctx, f), store.ErrNotFound)
}

func (s *StoreSuite) TestFindingsDelete_SyncsDesignReviews() {
	id, tmID := uuid.New(), uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT .* FROM "findings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "threat_model_id"}).AddRow(id.String(), tmID.String()))
	s.mock.ExpectExec(`DELETE FROM "findings" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(`SELECT count\(\*\) AS total`).
		WithArgs("OPEN", "IN_PROGRESS", tmID).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open"}).AddRow(1, 0))
	s.mock.ExpectExec(`UPDATE design_reviews SET status = \$1`).
		WithArgs("APPROVED", tmID, "APPROVED").
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	s.NoError(NewFindingsStore(s.DB).Delete(s.ctx, id))
}

func (s *StoreSuite) TestFindingsDelete_NotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT .* FROM "findings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "threat_model_id"}))
	s.mock.ExpectRollback()

	s.ErrorIs(NewFindingsStore(s.DB).Delete(s.ctx, uuid.New()), store.ErrNotFound)
}

func (s *StoreSuite) TestFindingsCreate_AIFindingsSyncOncePerThreatModel() {
	tmID := uuid.New()
	findings := []*model.Finding{
		{ThreatModelID: tmID, Title: "Session fixation", StrideCategory: model.StrideSpoofing, Severity: model.SeverityHigh, Status: model.FindingOpen, Source: model.FindingSourceAI},
		{ThreatModelID: tmID, Title: "Verbose errors", StrideCategory: model.StrideInformationDisclosure, Severity: model.SeverityLow, Status: model.FindingOpen, Source: model.FindingSourceAI},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "findings" .*"source".* VALUES \(.*\),\(.*\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectQuery(`SELECT count\(\*\) AS total`).
		WithArgs("OPEN", "IN_PROGRESS", tmID).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open"}).AddRow(2, 2))
	s.mock.ExpectExec(`UPDATE design_reviews SET status = \$1`).
		WithArgs("CHANGES_REQUESTED", tmID, "CHANGES_REQUESTED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.Require().NoError(NewFindingsStore(s.DB).Create(s.ctx, findings...))
	for _, f := range findings {
		s.NotEqual(uuid.Nil, f.ID)
	}
}

func (s *StoreSuite) TestDesignReviewUpdate_RelinkWithOpenFindingsRequestsChanges() {
	tmID := uuid.New()
	r := &model.DesignReview{
		Base:          model.Base{ID: uuid.New()},
		ThreatModelID: &tmID,
		Title:         "Checkout v2",
		Status:        model.DesignReviewApproved,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT count\(\*\) AS total`).
		WithArgs("OPEN", "IN_PROGRESS", tmID).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open"}).AddRow(4, 1))
	s.mock.ExpectExec(`UPDATE "design_reviews" SET .*"status"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.Require().NoError(NewDesignReviewsStore(s.DB).Update(s.ctx, r))
	s.Equal(model.DesignReviewChangesRequested, r.Status)
}

func (s *StoreSuite) TestDesignReviewCreate_NoFindingsKeepsStatus() {
	tmID := uuid.New()
	r := &model.DesignReview{ThreatModelID: &tmID, Title: "Checkout v2", Status: model.DesignReviewInReview}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT count\(\*\) AS total`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open"}).AddRow(0, 0))
	s.mock.ExpectExec(`INSERT INTO "design_reviews"`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.Require().NoError(NewDesignReviewsStore(s.DB).Create(s.ctx, r))
	s.Equal(model.DesignReviewInReview, r.Status)
	s.NotEqual(uuid.Nil, r.ID)
}

func (s *StoreSuite) TestThreatModelSetAssets_RejectsForeignAssets() {
	tmID, orgID := uuid.New(), uuid.New()
	assets := []uuid.UUID{uuid.New(), uuid.New()}

	s.mock.ExpectQuery(`SELECT organization_id FROM "threat_models"`).
		WillReturnRows(sqlmock.NewRows([]string{"organization_id"}).AddRow(orgID.String()))
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM threat_model_assets WHERE threat_model_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(`INSERT INTO threat_model_assets \(threat_model_id, asset_id\) SELECT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectRollback()

	err := NewThreatModelsStore(s.DB).SetAssets(s.ctx, tmID, append(assets, assets[0]))
	s.ErrorIs(err, store.ErrInvalid)
}

func (s *StoreSuite) TestEndpointsCreateBatch_IgnoresDuplicates() {
	org := uuid.New()
	endpoints := []model.DiscoveredEndpoint{
		{OrganizationID: org, Method: "GET", Host: "api.acme.test", Path: "/v1/orders"},
		{OrganizationID: org, Method: "GET", Host: "api.acme.test", Path: "/v1/orders"},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "discovered_endpoints" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	n, err := NewDiscoveredEndpointsStore(s.DB).CreateBatch(s.ctx, endpoints)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *StoreSuite) TestHealth() {
	s.mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.NoError(NewHealthStore(s.DB).CheckConnectivity(s.ctx))
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), store.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), store.ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), store.ErrInvalid)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23514"}), store.ErrInvalid)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, uniqueIDs([]uuid.UUID{a, b, a, b}))
	assert.Empty(t, uniqueIDs(nil))
}
