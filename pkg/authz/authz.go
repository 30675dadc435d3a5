package authz

import (
	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// CanAccessOrganization reports whether id may see the organization at all.
func CanAccessOrganization(id *identity.Identity, orgID uuid.UUID) bool {
	return id.IsPlatformAdmin() || id.InOrganization(orgID)
}

// CanCreateOrganization is reserved to platform administrators.
func CanCreateOrganization(id *identity.Identity) bool {
	return id.IsPlatformAdmin()
}

// CanManageOrganization covers renaming and other settings.
func CanManageOrganization(id *identity.Identity, orgID uuid.UUID) bool {
	if id.IsPlatformAdmin() {
		return true
	}
	return id.Role == model.RoleBusinessAdmin && id.InOrganization(orgID)
}

func CanDeleteOrganization(id *identity.Identity) bool {
	return id.IsPlatformAdmin()
}

// CanManageUsers reports whether id may list and administer the users of orgID.
func CanManageUsers(id *identity.Identity, orgID uuid.UUID) bool {
	return CanManageOrganization(id, orgID)
}

// CanAssignRole reports whether id may give role to a user of orgID. A nil
// orgID means a user outside any organization.
func CanAssignRole(id *identity.Identity, orgID *uuid.UUID, role model.Role) bool {
	if !role.IsARole() {
		return false
	}
	if id.IsPlatformAdmin() {
		return true
	}
	if id.Role != model.RoleBusinessAdmin || orgID == nil || !id.InOrganization(*orgID) {
		return false
	}
	return role != model.RolePlatformAdmin
}

// CanViewUser lets admins see their users and everyone see themselves.
func CanViewUser(id *identity.Identity, target *model.User) bool {
	if id.UserID == target.ID || id.IsPlatformAdmin() {
		return true
	}
	return target.OrganizationID != nil && CanManageUsers(id, *target.OrganizationID)
}

// CanModifyUser reports whether id may update or delete target. Business
// admins cannot touch platform admins, even in their own organization.
func CanModifyUser(id *identity.Identity, target *model.User) bool {
	if id.IsPlatformAdmin() {
		return true
	}
	if target.Role == model.RolePlatformAdmin || target.OrganizationID == nil {
		return false
	}
	return CanManageUsers(id, *target.OrganizationID)
}

// CanDeleteUser is CanModifyUser minus deleting oneself.
func CanDeleteUser(id *identity.Identity, target *model.User) bool {
	return id.UserID != target.ID && CanModifyUser(id, target)
}

// CanRead reports whether id may see a business record.
func CanRead(id *identity.Identity, rec model.Owned) bool {
	if id.IsPlatformAdmin() {
		return true
	}
	if !id.InOrganization(rec.OrgID()) {
		return false
	}
	if id.Role == model.RoleUser {
		return rec.OwnerUserID() == id.UserID
	}
	return true
}

// CanWrite reports whether id may modify a business record.
func CanWrite(id *identity.Identity, rec model.Owned) bool {
	return CanRead(id, rec)
}

// CanDelete reports whether id may delete a business record.
func CanDelete(id *identity.Identity, rec model.Owned) bool {
	switch {
	case id.IsPlatformAdmin():
		return true
	case !id.InOrganization(rec.OrgID()):
		return false
	case id.Role == model.RoleBusinessAdmin:
		return true
	default:
		return rec.OwnerUserID() == id.UserID
	}
}

// CanCreateIn reports whether id may create business records in orgID.
func CanCreateIn(id *identity.Identity, orgID uuid.UUID) bool {
	return CanAccessOrganization(id, orgID)
}

// CanManageTags covers creating and deleting an organization's tags, which
// every member shares.
func CanManageTags(id *identity.Identity, orgID uuid.UUID) bool {
	if id.IsPlatformAdmin() {
		return true
	}
	return id.InOrganization(orgID) && id.Role.Rank() >= model.RoleBusinessUser.Rank()
}

// CanViewSecurityEvents lets admins read the activity log.
func CanViewSecurityEvents(id *identity.Identity) bool {
	return id.IsPlatformAdmin() || (id.Role == model.RoleBusinessAdmin && id.OrganizationID != nil)
}

// ListScope returns the rows id may see in list queries. ok is false when
// the identity cannot see any business records.
func ListScope(id *identity.Identity) (scope store.Scope, ok bool) {
	if id.IsPlatformAdmin() {
		return store.Scope{}, true
	}
	if id.OrganizationID == nil {
		return store.Scope{}, false
	}
	org := *id.OrganizationID
	scope.OrganizationID = &org
	if id.Role == model.RoleUser {
		owner := id.UserID
		scope.OwnerID = &owner
	}
	return scope, true
}

// OrganizationScope is ListScope without the owner restriction, for shared
// organization data such as tags and dashboards.
func OrganizationScope(id *identity.Identity) (store.Scope, bool) {
	scope, ok := ListScope(id)
	scope.OwnerID = nil
	return scope, ok
}
