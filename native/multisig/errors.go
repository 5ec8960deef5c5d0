package multisig

import (
	"errors"
	"fmt"

	coreerrors "msigchain/core/errors"
)

// Sentinel errors identifying why a handler denied an instruction. Each is
// wrapped in a *coreerrors.ValidationFail carrying the matching Kind before
// it is returned, so callers can either errors.Is against the sentinel or
// switch on the Kind.
var (
	ErrNotQualifiedToPropose = errors.New("multisig: not qualified to propose multisig")
	ErrNotQualifiedToApprove = errors.New("multisig: not qualified to approve multisig")
	ErrProposalDuplicate     = errors.New("multisig: multisig proposal duplicates")
	ErrProposalNotFound      = errors.New("multisig: proposal not found")
	ErrReservedRoleNamespace = errors.New("multisig: role name is reserved for multisig signatories")
	ErrNotMultisigAccount    = errors.New("multisig: account is not a multisig account")
)

func deny(kind coreerrors.Kind, sentinel error) error {
	return coreerrors.Wrap(kind, sentinel.Error(), sentinel)
}

func denyf(kind coreerrors.Kind, sentinel error, format string, args ...interface{}) error {
	return coreerrors.Wrap(kind, fmt.Sprintf(format, args...), sentinel)
}
