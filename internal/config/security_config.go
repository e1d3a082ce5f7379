package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD route-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health - Public
	"GET /healthz": SecurityPublic,

	// CORS preflight never carries credentials
	"OPTIONS *": SecurityPublic,
}

// GetSecurityLevel returns the security level for a given method and route template
func GetSecurityLevel(method, route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+route]; exists {
		return level
	}
	if level, exists := EndpointSecurityConfig[method+" *"]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
