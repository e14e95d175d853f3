// version.go - Service & API version info
package server

// ServiceVersion returns the current service version.
func ServiceVersion() string {
	return "v1.0.0"
}

// APIVersion returns the current API version.
func APIVersion() string {
	return "v1"
}
