package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityTable(t *testing.T) {
	cases := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleOwner, CapCrudAllItems, true},
		{RoleOwner, CapManageSettings, true},
		{RoleOwner, CapCrudOwnItems, false},

		{RoleAdmin, CapCrudAllItems, true},
		{RoleAdmin, CapEmptyTrash, true},
		{RoleAdmin, CapManageSettings, false},
		{RoleAdmin, CapCrudOwnItems, false},

		{RoleMember, CapCrudOwnItems, true},
		{RoleMember, CapViewItems, true},
		{RoleMember, CapViewUsage, true},
		{RoleMember, CapCrudAllItems, false},
		{RoleMember, CapEmptyTrash, false},
		{RoleMember, CapManageMembers, false},

		{Role("ghost"), CapViewItems, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Has(tc.role, tc.capability),
			"role=%s capability=%s", tc.role, tc.capability)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(RoleOwner, CapEmptyTrash))

	err := Check(RoleMember, CapEmptyTrash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(CapEmptyTrash))
}

func TestCanMutateItem(t *testing.T) {
	// Owner and admin touch anything.
	assert.NoError(t, CanMutateItem(RoleOwner, 1, 2))
	assert.NoError(t, CanMutateItem(RoleAdmin, 1, 2))

	// Members only touch their own items.
	assert.NoError(t, CanMutateItem(RoleMember, 7, 7))
	assert.Error(t, CanMutateItem(RoleMember, 7, 8))

	assert.Error(t, CanMutateItem(Role("ghost"), 1, 1))
}

func TestCanCreateItem(t *testing.T) {
	assert.NoError(t, CanCreateItem(RoleOwner))
	assert.NoError(t, CanCreateItem(RoleAdmin))
	assert.NoError(t, CanCreateItem(RoleMember))
	assert.Error(t, CanCreateItem(Role("ghost")))
}
