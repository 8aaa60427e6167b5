// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID                  string     `db:"id"`
	Username            string     `db:"username"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	FullName            string     `db:"full_name"`
	Tier                string     `db:"tier"`
	Status              string     `db:"status"`
	FailedLoginAttempts int        `db:"failed_login_attempts"`
	LastLoginAt         *time.Time `db:"last_login_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// Privilege tiers, ordered lowest to highest.
const (
	TierBasic        = "basic"
	TierIntermediate = "intermediate"
	TierAdvanced     = "advanced"
	TierAdmin        = "admin"
	TierSuperAdmin   = "super_admin"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

var tierRank = map[string]int{
	TierBasic:        0,
	TierIntermediate: 1,
	TierAdvanced:     2,
	TierAdmin:        3,
	TierSuperAdmin:   4,
}

func ValidTier(tier string) bool {
	_, ok := tierRank[tier]
	return ok
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusSuspended, StatusInactive:
		return true
	}
	return false
}

func (u *User) IsSuperAdmin() bool {
	return u.Tier == TierSuperAdmin
}

// CanLogin reports whether the account status permits credential issuance.
// Pending accounts may log in; suspended and inactive ones may not.
func (u *User) CanLogin() bool {
	return u.Status == StatusActive || u.Status == StatusPending
}
