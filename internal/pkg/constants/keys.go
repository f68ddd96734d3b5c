package constants

const (
	CookieKeyAuthToken    = "auth_token"
	CookieKeyRefreshToken = "refresh_token"

	CtxKeyUserID    = "user_id"
	CtxKeyUser      = "user"
	CtxKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	// ViperSecretKey is the viper key of the JWT signing secret.
	ViperSecretKey = "auth.secret_key"

	// FilterAll disables a filter dimension in a multi-select.
	FilterAll = "all"

	MsgNoDefects = "no defects matched the given conditions"
)
