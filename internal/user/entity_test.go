// AngelaMos | 2026
// entity_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidTier(t *testing.T) {
	for _, tier := range []string{
		TierBasic, TierIntermediate, TierAdvanced, TierAdmin, TierSuperAdmin,
	} {
		require.True(t, ValidTier(tier), tier)
	}
	require.False(t, ValidTier("root"))
	require.False(t, ValidTier(""))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		StatusPending, StatusActive, StatusSuspended, StatusInactive,
	} {
		require.True(t, ValidStatus(status), status)
	}
	require.False(t, ValidStatus("deleted"))
}

func TestCanLogin(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusActive, true},
		{StatusPending, true},
		{StatusSuspended, false},
		{StatusInactive, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			u := &User{Status: tt.status}
			require.Equal(t, tt.want, u.CanLogin())
		})
	}
}

func TestIsSuperAdmin(t *testing.T) {
	require.True(t, (&User{Tier: TierSuperAdmin}).IsSuperAdmin())
	require.False(t, (&User{Tier: TierAdmin}).IsSuperAdmin())
}
