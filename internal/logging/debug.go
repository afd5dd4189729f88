package logging

import (
	"os"
)

// DebugEnvVar switches every logger built from configuration to DEBUG level.
const DebugEnvVar = "PT_DEBUG"

// DebugEnabled returns true if debug mode is enabled via PT_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}
