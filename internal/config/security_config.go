// config/security_config.go
package config

import "bookshare-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityOptional                      // Access token used when present
	SecurityRefresh                       // Refresh token required
	SecurityAccess                        // Access token required
)

// EndpointPolicy is the authentication level and, optionally, the role a route requires.
type EndpointPolicy struct {
	Level SecurityLevel
	Role  domain.Role
}

// EndpointSecurityConfig maps mux route names to their policy
var EndpointSecurityConfig = map[string]EndpointPolicy{
	"Health": {Level: SecurityPublic},

	// Landing resolves the session if a token is sent
	"Landing": {Level: SecurityOptional},

	// Auth - Public
	"Auth.SignUp":      {Level: SecurityPublic},
	"Auth.SignIn":      {Level: SecurityPublic},
	"Auth.VerifyEmail": {Level: SecurityPublic},

	// Auth - Refresh Protected
	"Auth.Refresh": {Level: SecurityRefresh},

	// Auth - Access Protected
	"Auth.SignOut": {Level: SecurityAccess},
	"Profile.Me":   {Level: SecurityAccess},

	// Donor dashboard
	"Donor.ListBooks":       {Level: SecurityAccess, Role: domain.RoleDonor},
	"Donor.CreateBook":      {Level: SecurityAccess, Role: domain.RoleDonor},
	"Donor.SetAvailability": {Level: SecurityAccess, Role: domain.RoleDonor},
	"Donor.DeleteBook":      {Level: SecurityAccess, Role: domain.RoleDonor},
	"Donor.ListRequests":    {Level: SecurityAccess, Role: domain.RoleDonor},
	"Donor.DecideRequest":   {Level: SecurityAccess, Role: domain.RoleDonor},

	// Receiver dashboard
	"Receiver.ListBooks":     {Level: SecurityAccess, Role: domain.RoleReceiver},
	"Receiver.ListGenres":    {Level: SecurityAccess, Role: domain.RoleReceiver},
	"Receiver.CreateRequest": {Level: SecurityAccess, Role: domain.RoleReceiver},
	"Receiver.ListRequests":  {Level: SecurityAccess, Role: domain.RoleReceiver},

	// Notifications - any authenticated profile
	"Notifications.List":     {Level: SecurityAccess},
	"Notifications.MarkRead": {Level: SecurityAccess},
}

// GetEndpointPolicy returns the policy for a given route name
func GetEndpointPolicy(route string) EndpointPolicy {
	if policy, exists := EndpointSecurityConfig[route]; exists {
		return policy
	}
	// Default to highest security for unknown routes
	return EndpointPolicy{Level: SecurityAccess}
}
