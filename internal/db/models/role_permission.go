package models

// RolePermission grants a role CRUD flags on one function. A row exists only
// when at least one flag is set; an all-false grant is represented by the
// absence of a row, never by a row of falses.
type RolePermission struct {
	// RoleID is the ID of the role in this grant.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// FunctionID is the ID of the granted function.
	FunctionID uint `gorm:"primaryKey;column:function_id"`
	// CanCreate allows the create action on the function.
	CanCreate bool `gorm:"not null;default:false"`
	// CanRead allows the read action on the function.
	CanRead bool `gorm:"not null;default:false"`
	// CanUpdate allows the update action on the function.
	CanUpdate bool `gorm:"not null;default:false"`
	// CanDelete allows the delete action on the function.
	CanDelete bool `gorm:"not null;default:false"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Function is the associated function (loaded via foreign key).
	Function Function `gorm:"foreignKey:FunctionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
