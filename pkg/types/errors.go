package types

import "errors"

// Tree operation errors. ErrRootDeletion is a signal rather than a failure:
// the caller confirms with the user and answers it with a full reset.
var (
	ErrRootSibling    = errors.New("the root member cannot have a sibling")
	ErrRootDeletion   = errors.New("deleting the root member resets the whole tree")
	ErrInvalidFields  = errors.New("invalid member fields")
	ErrMemberNotFound = errors.New("member not found")
)
