// Package auth implements the token lifecycle for the quiz platform's
// user-auth service: credential login, HMAC-SHA-512 JWT issuance,
// introspection, refresh with rotation, logout via a revocation deny-list,
// and the single-use password-reset token flow.
//
// Token lifecycle:
//   - Auther orchestrates Login, Introspect, Logout, and Refresh against an
//     IdentityProvider (credential lookups) and a RevocationStore (revoked
//     jti values). Tokens move Issued -> Active -> {Expired | Revoked} and
//     never back; Refresh revokes the old token before minting the new one
//     so a crash mid-rotation fails safe.
//   - TokenService owns the wire format: three-part compact JWT, HS512 over
//     a single shared secret, claims sub/iss/iat/exp/jti/scope.
//
// Password resets:
//   - RequestPasswordResetHandler and RedeemPasswordResetHandler implement
//     the Created(used=false) -> Redeemed(used=true) state machine. Requests
//     for unknown emails succeed silently so callers cannot enumerate
//     accounts; redemption is an atomic conditional update so exactly one
//     of any concurrent redeemers wins.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter used by Auther and the
//     reset handlers. Sink errors are logged and never block authentication.
package auth
