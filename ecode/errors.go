package ecode

import "strings"

const (
	requiredMsg = "required"
	invalidMsg  = "invalid"
	failedMsg   = "failed"
	existMsg    = "already exists"
	notExistMsg = "does not exist"
)

// subject prefixes msg with the dotted path of k, e.g. "owner.type required".
func subject(msg string, k []string) string {
	if len(k) == 0 {
		return msg
	}
	return strings.Join(k, ".") + " " + msg
}

// FieldIsRequired reports a missing field
func FieldIsRequired(k ...string) string { return subject(requiredMsg, k) }

// FieldIsInvalid reports a field with an unusable value
func FieldIsInvalid(k ...string) string { return subject(invalidMsg, k) }

// Failed reports a failed operation
func Failed(k ...string) string { return subject(failedMsg, k) }

// AlreadyExist reports a resource that exists already
func AlreadyExist(k ...string) string { return subject(existMsg, k) }

// NotExist reports a missing resource
func NotExist(k ...string) string { return subject(notExistMsg, k) }
