package resp

// Application codes carried in JSON bodies alongside the HTTP status.
const (
	CodeOK            = 0
	CodeBadRequest    = 40000
	CodeNotFound      = 40400
	CodeInternalError = 50000
	CodeQueued        = 20200
)
