package multisig

import (
	"encoding/json"

	coreerrors "msigchain/core/errors"
	"msigchain/core/types"
	"msigchain/executor"
)

// VisitApprove admits instr iff the approver holds instr.Account's multisig
// role. A missing proposal is deliberately not checked here: it surfaces in
// Execute as a NotFound read failure, since failure-to-read is the natural
// sentinel for an unknown proposal hash.
func VisitApprove(ctx executor.Context, ex executor.Executor, instr types.MultisigApprove) error {
	approver := ctx.Authority
	qualified, err := hasMultisigRole(ex.Host(), approver, instr.Account)
	if err != nil {
		return err
	}
	if !qualified {
		return denyf(coreerrors.KindPermissionDenied, ErrNotQualifiedToApprove, "%s is not qualified to approve on %s", approver, instr.Account)
	}
	return nil
}

// ExecuteApprove records the approver's approval, recomputes weighted
// authentication and expiration, and on either outcome removes the
// proposal's three metadata keys. On authentication, and only if the
// proposal has not also expired, it replays the stored instructions under
// the multisig account's authority.
func ExecuteApprove(ctx executor.Context, ex executor.Executor, instr types.MultisigApprove) error {
	approver := ctx.Authority
	account := instr.Account
	h := instr.InstructionsHash

	// Rebind authority to the multisig account for the rest of this execute.
	ctx = ctx.WithAuthority(account)

	var signatories types.Signatories
	if ok, err := readMetadata(ex.Host(), account, MetadataKeySignatories, &signatories); err != nil {
		return err
	} else if !ok {
		return denyf(coreerrors.KindNotFound, ErrProposalNotFound, "no proposal %s on %s", h.Hex(), account)
	}

	var quorum uint16
	if ok, err := readMetadata(ex.Host(), account, MetadataKeyQuorum, &quorum); err != nil {
		return err
	} else if !ok {
		return denyf(coreerrors.KindNotFound, ErrProposalNotFound, "no proposal %s on %s", h.Hex(), account)
	}

	var ttlMs uint64
	if ok, err := readMetadata(ex.Host(), account, MetadataKeyTransactionTTLMs, &ttlMs); err != nil {
		return err
	} else if !ok {
		return denyf(coreerrors.KindNotFound, ErrProposalNotFound, "no proposal %s on %s", h.Hex(), account)
	}

	var encodedInstrs []json.RawMessage
	if ok, err := readMetadata(ex.Host(), account, InstructionsKey(h), &encodedInstrs); err != nil {
		return err
	} else if !ok {
		return denyf(coreerrors.KindNotFound, ErrProposalNotFound, "no proposal %s on %s", h.Hex(), account)
	}

	var proposedAtMs uint64
	if ok, err := readMetadata(ex.Host(), account, ProposedAtKey(h), &proposedAtMs); err != nil {
		return err
	} else if !ok {
		return denyf(coreerrors.KindNotFound, ErrProposalNotFound, "no proposal %s on %s", h.Hex(), account)
	}

	var approvals ApprovalSet
	if ok, err := readMetadata(ex.Host(), account, ApprovalsKey(h), &approvals); err != nil {
		return err
	} else if !ok {
		return denyf(coreerrors.KindNotFound, ErrProposalNotFound, "no proposal %s on %s", h.Hex(), account)
	}

	// Insert the approver and write the approval set back immediately, so
	// that even if a later replayed instruction is denied and the whole
	// execute rolls back, the weighted-sum computation below is consistent
	// with the set that would have been observable had it succeeded.
	approvals.Add(approver)
	if err := setMetadata(ctx, ex, account, ApprovalsKey(h), approvals); err != nil {
		return err
	}
	ctx.Emit(ApprovalRecorded{Account: account, InstructionsHash: h, Approver: approver})

	authenticated := quorum <= approvals.WeightedSum(signatories)
	expired := saturatingAddU64(proposedAtMs, ttlMs) < ctx.NowMillis()

	if authenticated || expired {
		if err := removeMetadata(ctx, ex, account, ApprovalsKey(h)); err != nil {
			return err
		}
		if err := removeMetadata(ctx, ex, account, ProposedAtKey(h)); err != nil {
			return err
		}
		if err := removeMetadata(ctx, ex, account, InstructionsKey(h)); err != nil {
			return err
		}
	}

	// Expired-first policy: an approval that both authenticates and
	// observes expiration resolves to cleanup only, even though the
	// authentication condition above also held. The ledger favors refusing
	// to execute a stale proposal over executing it because a last approver
	// happened to race it in.
	if expired {
		ctx.Emit(ProposalExpired{Account: account, InstructionsHash: h})
		return nil
	}

	if authenticated {
		instrs, err := types.DecodeInstructions(encodedInstrs)
		if err != nil {
			return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "decode stored instructions", err)
		}
		for _, stored := range instrs {
			if err := ex.VisitInstruction(ctx, stored); err != nil {
				return err
			}
		}
		ctx.Emit(ProposalExecuted{Account: account, InstructionsHash: h})
	}

	return nil
}
