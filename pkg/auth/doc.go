// Package auth implements the access-control core of Stockade: credential
// validation against the user store, issuance of signed bearer tokens with
// tiered lifetimes, verification of inbound tokens including a revocation
// check against an external blacklist cache, and explicit revocation at
// logout.
//
// Tokens are stateless RS256 JWTs carrying only the username; roles are
// never embedded and are resolved fresh on every request by pkg/rbac so
// that a role change takes effect on the next request without re-login.
// The only shared mutable state is the blacklist cache, which is external.
//
// The signing key pair is provisioned externally and loaded once at
// startup. Rotating it invalidates every outstanding token.
package auth
