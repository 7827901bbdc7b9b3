// Package interceptor decorates outbound HTTP requests with the simulated role.
//
// Transport is an http.RoundTripper. For every request it reads the current
// role once. With a role present the request is cloned and stamped with
// X-Simulated-Role, X-Simulated-Role-Name and X-Simulated-Permissions; without
// one it is left untouched.
//
// Requests whose path contains one of the simulated endpoints (by default
// /api/admin/, /api/roles/ and /api/permissions/) never reach the base
// transport. A JSON response is produced locally instead:
//
//   - no role: 401 {"error":"No role assigned","code":"NO_ROLE"}
//   - admin endpoint, role is not admin: 403 {"error":"Insufficient permissions","code":"ADMIN_REQUIRED"}
//   - admin endpoint, role is admin: 200 with the display name and permissions
//   - any other simulated endpoint: 200 {"success":true,"message":"Role simulation active",...}
//
// Usage:
//
//	client := interceptor.Client(store, interceptor.WithLogger(log))
//	resp, err := client.Get("https://api.example.com/api/roles/current")
package interceptor
