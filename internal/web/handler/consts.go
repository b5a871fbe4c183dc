package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// APIPrefix is the common prefix of every JSON route.
	APIPrefix = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
