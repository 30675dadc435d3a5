package gorm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// ownedTables lists every table with an owner_id column referencing users.
var ownedTables = []string{
	"threat_models",
	"findings",
	"design_reviews",
	"assets",
	"third_party_reviews",
	"reports",
}

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) List(ctx context.Context, filter store.UserFilter) ([]model.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.User{})
	if filter.Scope.OrganizationID != nil {
		q = q.Where("organization_id = ?", *filter.Scope.OrganizationID)
	}
	if filter.Role != 0 {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("lower(email) LIKE ? OR lower(name) LIKE ?", like, like)
	}

	var users []model.User
	total, err := findPage(q, filter.Page, "email", &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UsersStore) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UsersStore) Create(ctx context.Context, user *model.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *UsersStore) Update(ctx context.Context, user *model.User) error {
	return checkAffected(s.db.WithContext(ctx).Model(user).
		Select("name", "role", "active", "organization_id").
		Updates(user))
}

func (s *UsersStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return checkAffected(s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now()}))
}

func (s *UsersStore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Delete moves every record owned by id to transferTo and removes the user
// in one transaction.
func (s *UsersStore) Delete(ctx context.Context, id, transferTo uuid.UUID) (*store.OwnershipTransfer, error) {
	if id == transferTo {
		return nil, fmt.Errorf("%w: records cannot be transferred to the deleted user", store.ErrInvalid)
	}

	transfer := &store.OwnershipTransfer{From: id, To: transferTo, Records: make(map[string]int64)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range ownedTables {
			res := tx.Exec(
				fmt.Sprintf(`UPDATE %s SET owner_id = ?, updated_at = now() WHERE owner_id = ?`, table),
				transferTo, id,
			)
			if res.Error != nil {
				return fmt.Errorf("transfer %s: %w", table, res.Error)
			}
			transfer.Records[table] = res.RowsAffected
		}

		if err := tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, id).Error; err != nil {
			return err
		}

		res := tx.Exec(`DELETE FROM users WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return transfer, nil
}

// Ensure SessionsStore implements store.SessionsStore
var _ store.SessionsStore = (*SessionsStore)(nil)

// SessionsStore implements store.SessionsStore using GORM
type SessionsStore struct {
	db *gorm.DB
}

// NewSessionsStore creates a new SessionsStore
func NewSessionsStore(db *gorm.DB) *SessionsStore {
	return &SessionsStore{db: db}
}

func (s *SessionsStore) Create(ctx context.Context, session *model.Session) error {
	return translate(s.db.WithContext(ctx).Create(session).Error)
}

func (s *SessionsStore) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var session model.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *SessionsStore) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}

func (s *SessionsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.Session{}, "id = ?", id))
}

func (s *SessionsStore) DeleteForUser(ctx context.Context, userID uuid.UUID, keep uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id <> ?", userID, keep).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
