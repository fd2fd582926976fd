// Package exitcode provides the process exit codes of nodelic
package exitcode

const (
	// Success means every dependency was reported
	Success = 0
	// GeneralError covers unsupported runtimes, missing project inputs and output failures
	GeneralError = 1
	// ConfigError covers invalid flags, config files and environment settings
	ConfigError = 2
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	default:
		return "Unknown error"
	}
}
