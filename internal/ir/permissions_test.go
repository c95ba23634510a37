package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrincipalCollapsesRoleSynonyms(t *testing.T) {
	cases := map[string]string{
		"GM":             RoleGamemaster,
		"Gamemaster":     RoleGamemaster,
		" game master  ": RoleGamemaster,
		"DM":             RoleGamemaster,
		"Player":         RolePlayer,
		"players":        RolePlayer,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePrincipal(in))
	}
}

func TestNormalizePrincipalPreservesVendorUserIDs(t *testing.T) {
	id := "usr-A1B2C3D4E5F6G7H8"
	assert.Equal(t, id, NormalizePrincipal(id))
}

func TestEffectiveLevelFallsBackToDefault(t *testing.T) {
	perms := NewEntityPermissions()
	perms.Default = PermissionObserver
	perms.Grant("GM", PermissionOwner)

	assert.Equal(t, PermissionOwner, perms.EffectiveLevel("Gamemaster"))
	assert.Equal(t, PermissionObserver, perms.EffectiveLevel("player-17"))
}

func TestGrantIsIdempotentAcrossCasing(t *testing.T) {
	perms := NewEntityPermissions()
	perms.Grant("GM", PermissionOwner)
	perms.Grant("gamemaster", PermissionLimited)
	assert.Len(t, perms.Levels, 1)
	assert.Equal(t, PermissionLimited, perms.EffectiveLevel("DM"))
}
