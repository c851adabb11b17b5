// Package auth logs the demo client in against the backend and keeps the
// resulting token.
//
// Login and Register each start a new trace (auth.login, auth.register) so
// the HTTP call made by the binder is a child of a fresh root, independent
// of whatever the caller was doing. The token is pulled out of the response
// by ExtractToken, which tries the known response shapes in order, and is
// saved in a TokenStore. FileStore keeps it in a single 0600 file.
//
// A missing token is reported as ErrNoLoginToken or ErrNoRegisterToken. Store
// failures are logged and never fail the call.
package auth
