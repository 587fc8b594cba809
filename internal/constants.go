package internal

import "time"

const (
	DefaultHomeDir         = "/home/deck"
	DefaultMinFreeSpaceMB  = 8 * 1024
	DefaultReleaseCacheTTL = 30 * time.Minute
)

const (
	DefaultHTTPTimeout  = 10 * time.Second
	ReleaseCheckTimeout = 30 * time.Second
	ValidationTimeout   = 3 * time.Second // Fast timeout for pre-flight connection checks
)
