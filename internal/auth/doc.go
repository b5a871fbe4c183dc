// Package auth implements the identity and access-control core.
//
// # Login pipeline
//
// CredentialValidator runs the login state machine in a fixed order, short
// circuiting on the first failure:
//  1. captcha validation (one-time, never touches the failure counter)
//  2. lockout check (locked wins even over a correct password)
//  3. identity lookup including soft-deleted accounts
//  4. constant-time password verification
//  5. counter update and password-age computation
//
// Unknown accounts and wrong passwords surface as one indistinguishable
// error so callers cannot enumerate accounts; captcha and lockout failures
// keep their specific messages because those states are not secrets.
// TokenIssuer turns a validated identity into an HS256 bearer token plus an
// opaque refresh token.
//
// # Authorization system
//
// Permissions are CRUD flags granted to roles on nodes of the function
// forest. The Service type answers authorization questions:
//   - HasPermission: OR of one flag across all of a user's roles
//   - GetUserPermissions: per-function aggregation for the whole user
//   - IsSuperAdmin: at least one live role with hierarchy level 1
//   - GetFunctionPermissionTree: the full forest annotated with one role's flags
//   - SetPermissions: transactional full replace of a role's grants
//
// # Middleware
//
// Fiber middleware protects routes with bearer tokens:
//   - RequireUser: any authenticated caller
//   - RequireFunction: super-admin, or the named CRUD grant on a function
//
// Example usage:
//
//	svc := auth.NewService(db)
//	issuer := auth.NewTokenIssuer(cfg.Auth.Token)
//
//	app.Put("/api/admin/roles/:id/permissions",
//	    auth.RequireUser(issuer),
//	    auth.RequireFunction(svc, "system.role", auth.CRUDUpdate),
//	    handler,
//	)
package auth
