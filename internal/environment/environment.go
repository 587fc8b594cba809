package environment

import "os"

// IsDevelopment reports a desktop run, where logs stay verbose regardless of config.json.
func IsDevelopment() bool {
	return os.Getenv("OPENGOAL_ENV") == "DEV"
}
