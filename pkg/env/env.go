// Package env keeps names of environment variables with special significance to
// wl.
package env

// Environment variables with special significance to wl.
//
// Note that some of these env vars may be significant only in special
// circumstances, such as when running unit tests.
const (
	HOME               = "HOME"
	WL_CONFIG          = "WL_CONFIG"
	WL_LOG_FILE        = "WL_LOG_FILE"
	WL_LOG_LEVEL       = "WL_LOG_LEVEL"
	WL_LOG_MODE        = "WL_LOG_MODE"
	WL_TEST_TIME_SCALE = "WL_TEST_TIME_SCALE"
	XDG_CONFIG_HOME    = "XDG_CONFIG_HOME"
)
