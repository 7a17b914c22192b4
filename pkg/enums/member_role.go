package enums

import "fmt"

// MemberRole distinguishes back-office administrators from shop clients.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleClient MemberRole = "client"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleClient,
}

// String implements fmt.Stringer.
func (r MemberRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known MemberRole.
func (r MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
