package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Images travel inline as base64, so the default is 32 MiB.
var maxBodyBytes int64 = defaultMaxBodyBytes

const defaultMaxBodyBytes = 32 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// inferTimeout controls the maximum duration an /analyze request may run before timing out.
// Zero means no additional timeout beyond server/connection timeouts.
var inferTimeout = int64(0) // seconds

// SetInferTimeoutSeconds sets the analyze timeout in seconds (0 disables).
func SetInferTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	inferTimeout = sec
}

// CORS configuration. Enabled by default with every origin, method and header
// allowed and credentials permitted.
var (
	corsEnabled        = true
	corsAllowedOrigins = []string{"*"}
	corsAllowedMethods = defaultCORSMethods
	corsAllowedHeaders = []string{"*"}
)

var defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}

// SetCORSOptions configures CORS behavior for the HTTP server. Empty lists
// fall back to allowing everything.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = orDefault(origins, []string{"*"})
	corsAllowedMethods = orDefault(methods, defaultCORSMethods)
	corsAllowedHeaders = orDefault(headers, []string{"*"})
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return append([]string(nil), def...)
	}
	return append([]string(nil), v...)
}
