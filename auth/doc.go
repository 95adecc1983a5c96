// Copyright (c) 2026 M. Liang.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.ScopeLoader, salt)
	err := auth.ValidateAdminKey(auth.ScopeLoader, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key. This allows validation
without storing the key anywhere: the operator derives it from the salt and
sends it in the X-Admin-Key header of the reload request.

The only scope in use is ScopeLoader, which guards the full dataset
replace-reload. The read-only query endpoints are unauthenticated.
*/
package auth
