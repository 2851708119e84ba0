package common

// AuthorizationHeaderName carries the bearer token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// EnvPrefix prefixes every environment variable read by the server config.
const EnvPrefix = "SENIKO_"
