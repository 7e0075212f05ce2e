package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a named capability grant on a user. The strings are persisted in
// the user_roles collection and embedded in JWT claims, so the exact
// spelling matters for interop.
type Role string

const (
	RoleCliente       Role = "cliente"
	RoleEntregador    Role = "entregador"
	RoleGerente       Role = "gerente"
	RoleAdministrador Role = "administrador"
)

// AllRoles lists every role the admin screen may assign.
var AllRoles = []Role{RoleCliente, RoleEntregador, RoleGerente, RoleAdministrador}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCliente, RoleEntregador, RoleGerente, RoleAdministrador:
		return true
	}
	return false
}

// UserRole is one document of the user_roles collection.
type UserRole struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role   Role               `bson:"role" json:"role"`
}
