package multisig

import (
	"encoding/json"
	"fmt"

	coreerrors "msigchain/core/errors"
	"msigchain/core/types"
	"msigchain/executor"
)

// setMetadata encodes value and writes it to account's key metadata entry
// under ctx's current authority.
func setMetadata(ctx executor.Context, ex executor.Executor, account types.AccountID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, fmt.Sprintf("encode %s", key), err)
	}
	return ex.VisitSetKeyValue(ctx, types.SetKeyValue{Account: account, Key: key, Value: raw})
}

// removeMetadata deletes account's key metadata entry under ctx's current
// authority.
func removeMetadata(ctx executor.Context, ex executor.Executor, account types.AccountID, key string) error {
	return ex.VisitRemoveKeyValue(ctx, types.RemoveKeyValue{Account: account, Key: key})
}

// readMetadata decodes account's key metadata entry into out, reporting
// whether it was present.
func readMetadata(host executor.Host, account types.AccountID, key string, out interface{}) (bool, error) {
	raw, ok, err := host.AccountMetadata(account, key)
	if err != nil {
		return false, coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, fmt.Sprintf("read %s", key), err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, fmt.Sprintf("decode %s", key), err)
	}
	return true, nil
}

// isDownwardProposal reports whether proposer is itself a multisig account
// that lists target as one of its own signatories - the mechanism by which
// recursive deployment propagates approval requests from root to leaves.
func isDownwardProposal(host executor.Host, proposer, target types.AccountID) (bool, error) {
	var signatories types.Signatories
	ok, err := readMetadata(host, proposer, MetadataKeySignatories, &signatories)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	_, contains := signatories[target]
	return contains, nil
}

// hasMultisigRole reports whether account holds the multisig role granted
// to signatories of multisigAccount.
func hasMultisigRole(host executor.Host, account, multisigAccount types.AccountID) (bool, error) {
	roles, err := host.RolesByAccount(account)
	if err != nil {
		return false, coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "read roles by account", err)
	}
	want := MultisigRoleFor(multisigAccount)
	for _, role := range roles {
		if role == want {
			return true, nil
		}
	}
	return false, nil
}
