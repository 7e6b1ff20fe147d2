package common

// AccessTokenCookieName is the cookie that carries the session token.
const AccessTokenCookieName = "access_token"

// Roles a user record may carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
