package models

// Role is a named authorization rank.
type Role struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Level       int    `db:"level" json:"level"`
	Description string `db:"description" json:"description"`
}

// DefaultRoles lists the five ranks seeded at bootstrap.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleSuperAdmin, Name: "Super Administrador", Level: 1, Description: "Acceso total al sistema"},
		{ID: RoleAdmin, Name: "Administrador", Level: 2, Description: "Gestión administrativa"},
		{ID: RoleModerator, Name: "Moderador", Level: 3, Description: "Supervisión de contenido"},
		{ID: RoleOperative, Name: "Operativo", Level: 4, Description: "Operaciones diarias"},
		{ID: RoleVisitor, Name: "Visitante", Level: 5, Description: "Solo lectura"},
	}
}
