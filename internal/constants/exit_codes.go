package constants

import (
	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
)

// Process exit codes understood by the launcher script.
const (
	ExitCodeBackendUnavailable gaba.ExitCode = 20
	ExitCodeSteamRestart       gaba.ExitCode = 21
)
