// Package user defines the account model used by the authentication service
// and the HTTP layer.
package user

// User represents a registered account. The password hash is deliberately
// not part of this struct; it never leaves the accounts service.
type User struct {
	// ID is the opaque unique identifier of the account (a UUID).
	ID string

	// Email is the case-normalized email the account was registered with.
	Email string

	// CreatedAt is the account creation time in unix seconds.
	CreatedAt int64
}
