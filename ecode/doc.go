// Package ecode provides the message fragments used when building index
// errors, so that scope, validation and schema failures read the same way
// across packages.
//
// Example:
//
//	ecode.FieldIsRequired("owner", "type") // "owner.type required"
//	ecode.FieldIsInvalid("name")           // "name invalid"
//	ecode.AlreadyExist("index")            // "index already exists"
package ecode
