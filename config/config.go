package config

import "time"

const (
	BuildVersion = "v0.1.0-BUILD_VERSION"

	QueryListLimit   = 500
	ProbeMaxRedirect = 5
	ProbeBackoffBase = time.Second
	ProbeBackoffMax  = 16 * time.Second
)
