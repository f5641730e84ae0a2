package models

// RoleName is the fixed set of roles a user can hold. There is no hierarchy:
// an Administrator does not inherit Librarian or Reader permissions.
type RoleName string

const (
	RoleReader        RoleName = "Reader"
	RoleLibrarian     RoleName = "Librarian"
	RoleAdministrator RoleName = "Administrator"
)

// AllRoles is the reference data seeded at startup.
var AllRoles = []RoleName{RoleReader, RoleLibrarian, RoleAdministrator}

type Role struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Name RoleName `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}
