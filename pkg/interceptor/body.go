package interceptor

import "github.com/dmitrymomot/rolesim/pkg/rbac"

// Error codes of synthetic failures.
const (
	CodeNoRole        = "NO_ROLE"
	CodeAdminRequired = "ADMIN_REQUIRED"
)

// ErrorBody is the payload of synthetic 401 and 403 responses.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// AdminData is the data section of a granted admin response.
type AdminData struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// AdminBody is the payload of a granted admin response.
type AdminBody struct {
	Success     bool              `json:"success"`
	Data        AdminData         `json:"data"`
	Permissions []rbac.Permission `json:"permissions"`
}

// StatusBody is the payload of the generic simulated success response.
type StatusBody struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CurrentRole string `json:"currentRole"`
	Timestamp   string `json:"timestamp"`
}
