// Package server implements the loopback HTTP server that receives
// OAuth2 callbacks during interactive authorization.
//
// The CLI opens the provider's consent page in a browser, then waits on
// [OAuthHandler.Result] for the redirect to hit /callback. The handler
// validates the state parameter, exchanges the authorization code, and
// delivers exactly one [OAuthResult] before the server shuts down.
//
// [BasicRouter] is a thin wrapper over [http.ServeMux] with middleware
// support; [LoggingMiddleware] records each callback request.
package server
