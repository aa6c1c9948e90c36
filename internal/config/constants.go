package config

import "time"

const (
	// AppName names the XDG subdirectories.
	AppName = "tuidesk"

	// OSName is what the desktop calls itself.
	OSName    = "korzeOS"
	OSVersion = "1.0 MultiInstance"

	DefaultUser = "korze"
)

// Window defaults, in cells.
const (
	DefaultWindowWidth  = 72
	DefaultWindowHeight = 20
)

const (
	DefaultSnippetLength   = 500
	DefaultScrollbackLines = 1000
)

// Timing.
const (
	NormalFPS            = 30
	TickInterval         = 100 * time.Millisecond
	NotificationDuration = 3 * time.Second
	MailSendDelay        = 1500 * time.Millisecond
	WatchDebounce        = 200 * time.Millisecond
)
