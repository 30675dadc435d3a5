package gorm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Postgres SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
		case foreignKeyViolation, checkViolation:
			return fmt.Errorf("%w: %s", store.ErrInvalid, pgErr.ConstraintName)
		}
	}
	return err
}

func applyScope(q *gorm.DB, scope store.Scope, table string) *gorm.DB {
	if scope.OrganizationID != nil {
		q = q.Where(table+".organization_id = ?", *scope.OrganizationID)
	}
	if scope.OwnerID != nil {
		q = q.Where(table+".owner_id = ?", *scope.OwnerID)
	}
	return q
}

// findPage counts the rows matched by q, then loads one page of them. The
// optional scopes (typically preloads) apply to the page query only.
func findPage[T any](q *gorm.DB, page store.Page, order string, dest *[]T, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}

	find := q.Session(&gorm.Session{}).Scopes(scopes...).Order(order)
	if page.Limit > 0 {
		find = find.Limit(page.Limit)
	}
	if page.Offset > 0 {
		find = find.Offset(page.Offset)
	}
	if err := find.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// checkAffected turns "nothing matched" into ErrNotFound.
func checkAffected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// replaceLinks rewrites a join table row set for owner. Every target must
// exist in targetTable within orgID, otherwise nothing changes and
// ErrInvalid is returned.
func replaceLinks(db *gorm.DB, joinTable, ownerColumn, targetColumn, targetTable string, ownerID, orgID uuid.UUID, targets []uuid.UUID) error {
	targets = uniqueIDs(targets)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, joinTable, ownerColumn), ownerID).Error; err != nil {
			return err
		}
		if len(targets) == 0 {
			return nil
		}
		res := tx.Exec(fmt.Sprintf(
			`INSERT INTO %s (%s, %s) SELECT ?, id FROM %s WHERE id IN ? AND organization_id = ?`,
			joinTable, ownerColumn, targetColumn, targetTable,
		), ownerID, targets, orgID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(targets)) {
			return fmt.Errorf("%w: %s outside the organization", store.ErrInvalid, targetTable)
		}
		return nil
	})
}

// orgOf returns the organization_id of a row.
func orgOf(tx *gorm.DB, table string, id uuid.UUID) (uuid.UUID, error) {
	var row struct{ OrganizationID uuid.UUID }
	res := tx.Table(table).Select("organization_id").Where("id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, store.ErrNotFound
	}
	return row.OrganizationID, nil
}
