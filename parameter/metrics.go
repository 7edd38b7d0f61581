package parameter

// Metrics
const (
	MetricsNamespace = "nbody"

	// MetricsAddr empty disables the /metrics endpoint
	MetricsAddr = ""
	MetricsPath = "/metrics"
)
