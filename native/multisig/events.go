package multisig

import (
	"msigchain/core/types"
	"msigchain/crypto"
)

// Event type discriminators, reported through executor.Context.Emit so a
// host can forward proposal lifecycle transitions to RPC/indexers.
const (
	EventTypeAccountRegistered = "multisig.account_registered"
	EventTypeProposalOpened    = "multisig.proposal_opened"
	EventTypeApprovalRecorded  = "multisig.approval_recorded"
	EventTypeProposalExecuted  = "multisig.proposal_executed"
	EventTypeProposalExpired   = "multisig.proposal_expired"
)

// AccountRegistered reports that Account was turned into a multisig account.
type AccountRegistered struct {
	Account          types.AccountID
	Quorum           uint16
	TransactionTTLMs uint64
}

// EventType implements events.Event.
func (AccountRegistered) EventType() string { return EventTypeAccountRegistered }

// ProposalOpened reports that Proposer opened a new proposal on Account.
type ProposalOpened struct {
	Account          types.AccountID
	InstructionsHash crypto.Hash
	Proposer         types.AccountID
}

// EventType implements events.Event.
func (ProposalOpened) EventType() string { return EventTypeProposalOpened }

// ApprovalRecorded reports that Approver approved the proposal identified by
// InstructionsHash on Account. It is emitted on every Approve regardless of
// whether the approval reached quorum.
type ApprovalRecorded struct {
	Account          types.AccountID
	InstructionsHash crypto.Hash
	Approver         types.AccountID
}

// EventType implements events.Event.
func (ApprovalRecorded) EventType() string { return EventTypeApprovalRecorded }

// ProposalExecuted reports that the proposal identified by InstructionsHash
// reached quorum and had its instructions replayed under Account's
// authority.
type ProposalExecuted struct {
	Account          types.AccountID
	InstructionsHash crypto.Hash
}

// EventType implements events.Event.
func (ProposalExecuted) EventType() string { return EventTypeProposalExecuted }

// ProposalExpired reports that the proposal identified by InstructionsHash
// was deleted on an Approve that observed its TTL had elapsed, without
// executing its instructions.
type ProposalExpired struct {
	Account          types.AccountID
	InstructionsHash crypto.Hash
}

// EventType implements events.Event.
func (ProposalExpired) EventType() string { return EventTypeProposalExpired }
