package rbac

// Resources used by the built-in catalog.
const (
	ResourceCartaPresentacion = "carta-presentacion"
	ResourceGestionPracticas  = "gestion-practicas"
	ResourceEmpresa           = "empresa"
	ResourceAdmin             = "admin"
)

// Built-in role ids.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleStudent  = "student"
)

func fullAccess() []Action {
	return []Action{ActionRead, ActionWrite, ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionExport}
}

// DefaultRoles returns fresh copies of the built-in admin, reviewer and student roles.
func DefaultRoles() []Role {
	return []Role{
		{
			ID:          RoleAdmin,
			Name:        "admin",
			DisplayName: "Administrador",
			Description: "Acceso completo a todos los módulos",
			Level:       1,
			Permissions: []Permission{
				{ID: "carta-presentacion-full", Name: "Carta Presentación - Completo", Resource: ResourceCartaPresentacion, Actions: fullAccess()},
				{ID: "gestion-practicas-full", Name: "Gestión Prácticas - Completo", Resource: ResourceGestionPracticas, Actions: fullAccess()},
				{ID: "empresa-full", Name: "Empresa - Completo", Resource: ResourceEmpresa, Actions: fullAccess()},
				{ID: "admin-panel", Name: "Panel Administrativo", Resource: ResourceAdmin, Actions: []Action{ActionRead, ActionWrite, ActionCreate, ActionUpdate, ActionDelete}},
			},
		},
		{
			ID:          RoleReviewer,
			Name:        "reviewer",
			DisplayName: "Revisor/Docente",
			Description: "Puede revisar y aprobar cartas de estudiantes",
			Level:       2,
			Permissions: []Permission{
				{ID: "carta-presentacion-review", Name: "Carta Presentación - Revisión", Resource: ResourceCartaPresentacion, Actions: []Action{ActionRead, ActionApprove, ActionExport}},
				{ID: "gestion-practicas-review", Name: "Gestión Prácticas - Revisión", Resource: ResourceGestionPracticas, Actions: []Action{ActionRead, ActionApprove, ActionExport}},
				{ID: "empresa-read", Name: "Empresa - Solo Lectura", Resource: ResourceEmpresa, Actions: []Action{ActionRead}},
			},
		},
		{
			ID:          RoleStudent,
			Name:        "student",
			DisplayName: "Estudiante",
			Description: "Acceso limitado a sus propias prácticas y cartas",
			Level:       3,
			Permissions: []Permission{
				{ID: "carta-presentacion-own", Name: "Carta Presentación - Propia", Resource: ResourceCartaPresentacion, Actions: []Action{ActionRead, ActionCreate, ActionUpdate}},
				{ID: "empresa-read-limited", Name: "Empresa - Lectura Limitada", Resource: ResourceEmpresa, Actions: []Action{ActionRead}},
			},
		},
	}
}

// DefaultCatalog builds a catalog from DefaultRoles.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(DefaultRoles()...)
}
