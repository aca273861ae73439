// Package jwt implements HMAC-SHA256 signed tokens for the admin API.
//
// Service generates and validates compact JWT strings; Middleware
// guards HTTP routes by requiring a valid bearer token and exposing
// the parsed claims through the request context.
//
//	svc, err := jwt.NewFromString(cfg.SigningKey)
//	r.Use(jwt.Middleware(svc))
//
// Only HS256 is supported. Tokens declaring any other algorithm are
// rejected to prevent algorithm confusion attacks.
package jwt
