package multisig

import (
	coreerrors "msigchain/core/errors"
	"msigchain/core/types"
	"msigchain/executor"
)

// VisitPropose admits instr iff the proposer is qualified - either a
// downward proposal from a parent multisig account, or a holder of
// instr.Account's multisig role - and no proposal with the same instruction
// hash is already open on instr.Account.
func VisitPropose(ctx executor.Context, ex executor.Executor, instr types.MultisigPropose) error {
	proposer := ctx.Authority

	downward, err := isDownwardProposal(ex.Host(), proposer, instr.Account)
	if err != nil {
		return err
	}
	if !downward {
		qualified, err := hasMultisigRole(ex.Host(), proposer, instr.Account)
		if err != nil {
			return err
		}
		if !qualified {
			return denyf(coreerrors.KindPermissionDenied, ErrNotQualifiedToPropose, "%s is not qualified to propose on %s", proposer, instr.Account)
		}
	}

	h, err := types.HashInstructions(instr.Instructions)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "hash instructions", err)
	}
	_, exists, err := ex.Host().AccountMetadata(instr.Account, ApprovalsKey(h))
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "read approvals", err)
	}
	if exists {
		return denyf(coreerrors.KindDuplicate, ErrProposalDuplicate, "proposal %s already open on %s", h.Hex(), instr.Account)
	}
	return nil
}

// ExecutePropose records instr.Instructions as a new proposal on
// instr.Account and recursively deploys approval sub-proposals into every
// signatory that is itself a multisig account.
func ExecutePropose(ctx executor.Context, ex executor.Executor, instr types.MultisigPropose) error {
	proposer := ctx.Authority
	account := instr.Account

	h, err := types.HashInstructions(instr.Instructions)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "hash instructions", err)
	}

	// Rebind authority to the multisig account for the rest of this execute.
	ctx = ctx.WithAuthority(account)

	var signatories types.Signatories
	found, err := readMetadata(ex.Host(), account, MetadataKeySignatories, &signatories)
	if err != nil {
		return err
	}
	if !found {
		return deny(coreerrors.KindNotFound, ErrNotMultisigAccount)
	}

	approvals := NewApprovalSet(proposer)
	nowMs := ctx.NowMillis()

	// Recursive deployment. For every signatory that is itself a multisig
	// account, propose an Approve(account, h) sub-transaction into it so
	// its own signatories can authenticate further down the tree.
	// Signatories are visited in account-sorted order so every validator
	// deploys into the same accounts in the same order.
	for _, signatory := range signatories.SortedAccounts() {
		isNestedMultisig, err := ex.Host().RoleExists(MultisigRoleFor(signatory))
		if err != nil {
			return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "check multisig role", err)
		}
		if !isNestedMultisig {
			continue
		}
		nested := types.MultisigPropose{
			Account:      signatory,
			Instructions: []types.Instruction{types.MultisigApprove{Account: account, InstructionsHash: h}},
		}
		// account qualifies to propose into signatory by the downward-
		// proposal rule: account lists signatory in its own signatories map.
		if err := VisitPropose(ctx, ex, nested); err != nil {
			return err
		}
		if err := ExecutePropose(ctx, ex, nested); err != nil {
			return err
		}
	}

	encodedInstrs, err := types.EncodeInstructions(instr.Instructions)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "encode instructions", err)
	}
	if err := setMetadata(ctx, ex, account, InstructionsKey(h), encodedInstrs); err != nil {
		return err
	}
	if err := setMetadata(ctx, ex, account, ProposedAtKey(h), nowMs); err != nil {
		return err
	}
	if err := setMetadata(ctx, ex, account, ApprovalsKey(h), approvals); err != nil {
		return err
	}
	ctx.Emit(ProposalOpened{Account: account, InstructionsHash: h, Proposer: proposer})
	return nil
}
