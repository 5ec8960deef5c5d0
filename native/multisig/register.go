package multisig

import (
	coreerrors "msigchain/core/errors"
	"msigchain/core/types"
	"msigchain/executor"
)

// VisitRegister is Register's precondition: delegation to the host's
// ordinary account-registration admission. There is no additional
// multisig-specific check here - that delegation is deliberate, since the
// host's VisitRegisterAccount call inside ExecuteRegister performs the
// actual permission check.
func VisitRegister(ctx executor.Context, ex executor.Executor, instr types.MultisigRegister) error {
	return nil
}

// ExecuteRegister turns instr.Account into a multisig account: it registers
// the account, writes its signatory map, quorum and TTL metadata, and
// creates and distributes the multisig role.
//
// ExecuteRegister does not check whether instr.Signatories forms a cycle
// with an ancestor multisig account already under construction (e.g.
// registering A with B as a signatory, then B with A). A cycle does not
// corrupt any stored metadata - it only makes the recursive deployment in
// ExecutePropose loop forever walking the cycle. Detecting it would require
// either a bounded deployment depth or a walk of the signatory graph at
// Register time, neither of which this engine enforces; callers that permit
// arbitrary nesting depth should guard against this at the host layer.
func ExecuteRegister(ctx executor.Context, ex executor.Executor, instr types.MultisigRegister) error {
	account := instr.Account
	role := MultisigRoleFor(account)

	if err := ex.VisitRegisterAccount(ctx, types.RegisterAccount{Account: account}); err != nil {
		return err
	}

	owner, err := ex.Host().DomainOwner(account.Domain)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "lookup domain owner", err)
	}

	// Re-authorize as the domain owner: writing multisig metadata and
	// creating the multisig role both require domain-owner authority, which
	// plain account-registration permission does not grant.
	ownerCtx := ctx.WithAuthority(owner)

	if err := setMetadata(ownerCtx, ex, account, MetadataKeySignatories, instr.Signatories); err != nil {
		return err
	}
	if err := setMetadata(ownerCtx, ex, account, MetadataKeyQuorum, instr.Quorum); err != nil {
		return err
	}
	if err := setMetadata(ownerCtx, ex, account, MetadataKeyTransactionTTLMs, instr.TransactionTTLMs); err != nil {
		return err
	}

	// Register the role owned by the domain owner first - only the role's
	// creator may grant it - then distribute it to every signatory and
	// revoke it from the owner, who is not itself a signatory.
	if err := ex.VisitRegisterRole(ownerCtx, types.RegisterRole{Role: role, GrantedTo: owner}); err != nil {
		return err
	}
	for _, signatory := range instr.Signatories.SortedAccounts() {
		if err := ex.VisitGrantAccountRole(ownerCtx, types.GrantAccountRole{Role: role, Account: signatory}); err != nil {
			return err
		}
	}
	if err := ex.VisitRevokeAccountRole(ownerCtx, types.RevokeAccountRole{Role: role, Account: owner}); err != nil {
		return err
	}

	ctx.Emit(AccountRegistered{Account: account, Quorum: instr.Quorum, TransactionTTLMs: instr.TransactionTTLMs})
	return nil
}
