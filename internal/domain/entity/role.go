package entity

import (
	"fmt"
	"strings"
)

// Role rol de un usuario. Los valores son los que ya existen en la base de datos.
type Role string

const (
	RoleCustomer       Role = "Заказчик"
	RoleOperator       Role = "Оператор"
	RoleSpecialist     Role = "Специалист"
	RoleManager        Role = "Менеджер"
	RoleQualityManager Role = "Менеджер по качеству"
)

// AllRoles en el orden en que se muestran en formularios.
var AllRoles = []Role{RoleCustomer, RoleOperator, RoleSpecialist, RoleManager, RoleQualityManager}

// StaffRoles roles de personal (todo menos cliente).
var StaffRoles = []Role{RoleOperator, RoleSpecialist, RoleManager, RoleQualityManager}

// ParseRole convierte el texto almacenado en un Role; rechaza cualquier valor fuera del conjunto.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsStaff true para operador, especialista, gerente y gerente de calidad.
func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleCustomer
}

// In indica si el rol está en el conjunto dado.
func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }
