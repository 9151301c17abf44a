package rbac

import "DropDock/internal/apperr"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Capability string

const (
	CapCrudOwnItems   Capability = "crud_own_items"
	CapCrudAllItems   Capability = "crud_all_items"
	CapViewItems      Capability = "view_items"
	CapEmptyTrash     Capability = "empty_trash"
	CapManageMembers  Capability = "manage_members"
	CapViewUsage      Capability = "view_usage"
	CapManageSettings Capability = "manage_settings"
)

// capabilityTable is the explicit role grant table. The roles look ordered
// but are not a superset chain: crud_own_items belongs to member only, while
// owner and admin hold crud_all_items instead. Keep this a flat table, do not
// derive grants by inheritance.
var capabilityTable = map[Role]map[Capability]bool{
	RoleOwner: {
		CapCrudAllItems:   true,
		CapViewItems:      true,
		CapEmptyTrash:     true,
		CapManageMembers:  true,
		CapViewUsage:      true,
		CapManageSettings: true,
	},
	RoleAdmin: {
		CapCrudAllItems:  true,
		CapViewItems:     true,
		CapEmptyTrash:    true,
		CapManageMembers: true,
		CapViewUsage:     true,
	},
	RoleMember: {
		CapCrudOwnItems: true,
		CapViewItems:    true,
		CapViewUsage:    true,
	},
}

// Valid reports whether the role exists in the table.
func (r Role) Valid() bool {
	_, ok := capabilityTable[r]
	return ok
}

// Has reports whether the role holds the capability.
func Has(role Role, capability Capability) bool {
	grants, ok := capabilityTable[role]
	if !ok {
		return false
	}
	return grants[capability]
}

// Check returns a Forbidden error naming the capability when the role lacks it.
func Check(role Role, capability Capability) error {
	if Has(role, capability) {
		return nil
	}
	return apperr.Forbidden(string(capability))
}

// CanCreateItem reports whether a role may create items at all.
func CanCreateItem(role Role) error {
	if Has(role, CapCrudAllItems) || Has(role, CapCrudOwnItems) {
		return nil
	}
	return apperr.Forbidden(string(CapCrudOwnItems))
}

// CanMutateItem resolves the item-mutation capability for a role: members may
// only touch their own items, owner/admin may touch any item in the workspace.
func CanMutateItem(role Role, actorID, itemOwnerID uint64) error {
	if Has(role, CapCrudAllItems) {
		return nil
	}
	if Has(role, CapCrudOwnItems) {
		if actorID == itemOwnerID {
			return nil
		}
		return apperr.Forbidden(string(CapCrudAllItems))
	}
	return apperr.Forbidden(string(CapCrudOwnItems))
}
