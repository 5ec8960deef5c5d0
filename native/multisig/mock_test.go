package multisig

import (
	"encoding/json"

	"msigchain/config"
	coreerrors "msigchain/core/errors"
	"msigchain/core/events"
	"msigchain/core/types"
	"msigchain/executor"
	"msigchain/observability/metrics"
)

// mockLedger is a minimal in-memory host/executor double standing in for
// the real ledger's executor and world-state query interface. It models
// just enough base-instruction permission logic to exercise the multisig
// engine's handlers: self-or-domain-owner account metadata mutation, and
// creator-gated role grant/revoke.
//
// mockLedger also stands in for the host's dispatch layer: it implements
// events.Emitter and drives the package's prometheus counters off the
// events the engine reports through ctx.Emit, and it runs registration
// instructions through config.Multisig's bounds check the way a real host
// would ahead of VisitRegister. Neither concern belongs in the engine
// itself (config.Multisig doc comment, observability/metrics/multisig.go
// package comment) - both are demonstrated here instead.
type mockLedger struct {
	accounts      map[types.AccountID]*types.Account
	domainOwners  map[string]types.AccountID
	roleCreators  map[types.RoleID]types.AccountID
	roleMembers   map[types.RoleID]map[types.AccountID]struct{}
	canRegisterIn map[types.AccountID]map[string]struct{}
	bounds        config.Multisig

	// dispatchingPropose, while non-nil, names the account a top-level
	// MultisigPropose dispatch is opening a proposal on. It distinguishes
	// that proposal's own ProposalOpened event from the ProposalOpened
	// events ExecutePropose's recursive deployment emits for nested
	// sub-proposals, so Emit can attribute each to the right counter.
	dispatchingPropose *types.AccountID
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		accounts:      make(map[types.AccountID]*types.Account),
		domainOwners:  make(map[string]types.AccountID),
		roleCreators:  make(map[types.RoleID]types.AccountID),
		roleMembers:   make(map[types.RoleID]map[types.AccountID]struct{}),
		canRegisterIn: make(map[types.AccountID]map[string]struct{}),
		bounds:        config.DefaultMultisig(),
	}
}

// Emit implements events.Emitter, driving the multisig prometheus counters
// off the engine's reported state transitions.
func (m *mockLedger) Emit(evt events.Event) {
	switch e := evt.(type) {
	case ProposalOpened:
		if m.dispatchingPropose != nil && e.Account == *m.dispatchingPropose {
			metrics.MultisigMetrics().RecordProposalOpened(e.Account.Domain)
		} else {
			metrics.MultisigMetrics().RecordRecursiveDeploy(e.Account.Domain)
		}
	case ApprovalRecorded:
		metrics.MultisigMetrics().RecordApproval(e.Account.Domain)
	case ProposalExecuted:
		metrics.MultisigMetrics().RecordQuorumReached(e.Account.Domain)
	case ProposalExpired:
		metrics.MultisigMetrics().RecordExpiration(e.Account.Domain)
	}
}

func (m *mockLedger) setDomainOwner(domain string, owner types.AccountID) {
	m.domainOwners[domain] = owner
	m.ensureAccount(owner)
}

func (m *mockLedger) grantRegisterPermission(account types.AccountID, domain string) {
	if m.canRegisterIn[account] == nil {
		m.canRegisterIn[account] = make(map[string]struct{})
	}
	m.canRegisterIn[account][domain] = struct{}{}
}

func (m *mockLedger) ensureAccount(id types.AccountID) *types.Account {
	acc, ok := m.accounts[id]
	if !ok {
		acc = types.NewAccount(id)
		m.accounts[id] = acc
	}
	return acc
}

func cloneAccount(acc *types.Account) *types.Account {
	clone := types.NewAccount(acc.ID)
	for key, value := range acc.Metadata {
		clone.Metadata[key] = append(json.RawMessage(nil), value...)
	}
	return clone
}

// mockLedgerSnapshot is a deep copy of mockLedger's state, used by tests to
// simulate the atomic top-level-instruction rollback the real executor is
// responsible for (out of scope for this engine; see spec design notes).
type mockLedgerSnapshot struct {
	accounts     map[types.AccountID]*types.Account
	roleCreators map[types.RoleID]types.AccountID
	roleMembers  map[types.RoleID]map[types.AccountID]struct{}
}

func (m *mockLedger) snapshot() mockLedgerSnapshot {
	accounts := make(map[types.AccountID]*types.Account, len(m.accounts))
	for id, acc := range m.accounts {
		accounts[id] = cloneAccount(acc)
	}
	roleCreators := make(map[types.RoleID]types.AccountID, len(m.roleCreators))
	for role, creator := range m.roleCreators {
		roleCreators[role] = creator
	}
	roleMembers := make(map[types.RoleID]map[types.AccountID]struct{}, len(m.roleMembers))
	for role, members := range m.roleMembers {
		clone := make(map[types.AccountID]struct{}, len(members))
		for member := range members {
			clone[member] = struct{}{}
		}
		roleMembers[role] = clone
	}
	return mockLedgerSnapshot{accounts: accounts, roleCreators: roleCreators, roleMembers: roleMembers}
}

// restore resets m's mutable ledger state (accounts and roles) to snap.
// Domain ownership and register permissions are test fixtures, not engine
// state, and are left untouched.
func (m *mockLedger) restore(snap mockLedgerSnapshot) {
	m.accounts = snap.accounts
	m.roleCreators = snap.roleCreators
	m.roleMembers = snap.roleMembers
}

// callTopLevelApprove executes instr as the real executor would a top-level
// instruction: on any error, every mutation ExecuteApprove made (including
// the approval write-back and proposal cleanup) is rolled back, since a
// top-level instruction either commits atomically or not at all.
func (m *mockLedger) callTopLevelApprove(ctx executor.Context, instr types.MultisigApprove) error {
	if err := VisitApprove(ctx, m, instr); err != nil {
		return err
	}
	snap := m.snapshot()
	if err := ExecuteApprove(ctx, m, instr); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// Host implementation.

func (m *mockLedger) DomainOwner(domain string) (types.AccountID, error) {
	owner, ok := m.domainOwners[domain]
	if !ok {
		return types.AccountID{}, coreerrors.Newf(coreerrors.KindNotFound, "unknown domain %q", domain)
	}
	return owner, nil
}

func (m *mockLedger) RolesByAccount(account types.AccountID) ([]types.RoleID, error) {
	var roles []types.RoleID
	for role, members := range m.roleMembers {
		if _, ok := members[account]; ok {
			roles = append(roles, role)
		}
	}
	for i := 0; i < len(roles); i++ {
		for j := i + 1; j < len(roles); j++ {
			if roles[j] < roles[i] {
				roles[i], roles[j] = roles[j], roles[i]
			}
		}
	}
	return roles, nil
}

func (m *mockLedger) RoleExists(role types.RoleID) (bool, error) {
	_, ok := m.roleMembers[role]
	return ok, nil
}

func (m *mockLedger) AccountMetadata(account types.AccountID, key string) (json.RawMessage, bool, error) {
	acc, ok := m.accounts[account]
	if !ok {
		return nil, false, nil
	}
	raw, ok := acc.Metadata[key]
	return raw, ok, nil
}

// Executor implementation.

func (m *mockLedger) Host() executor.Host { return m }

func (m *mockLedger) VisitRegisterAccount(ctx executor.Context, instr types.RegisterAccount) error {
	if _, exists := m.accounts[instr.Account]; exists {
		return coreerrors.Newf(coreerrors.KindDuplicate, "account %s already registered", instr.Account)
	}
	owner, hasOwner := m.domainOwners[instr.Account.Domain]
	permitted := hasOwner && ctx.Authority == owner
	if !permitted {
		if domains, ok := m.canRegisterIn[ctx.Authority]; ok {
			_, permitted = domains[instr.Account.Domain]
		}
	}
	if !permitted {
		return coreerrors.Newf(coreerrors.KindPermissionDenied, "%s may not register accounts in %q", ctx.Authority, instr.Account.Domain)
	}
	m.ensureAccount(instr.Account)
	return nil
}

func (m *mockLedger) canMutateMetadata(ctx executor.Context, account types.AccountID) bool {
	if ctx.Authority == account {
		return true
	}
	if owner, ok := m.domainOwners[account.Domain]; ok && ctx.Authority == owner {
		return true
	}
	return false
}

func (m *mockLedger) VisitSetKeyValue(ctx executor.Context, instr types.SetKeyValue) error {
	if !m.canMutateMetadata(ctx, instr.Account) {
		return coreerrors.Newf(coreerrors.KindPermissionDenied, "%s may not set metadata on %s", ctx.Authority, instr.Account)
	}
	acc := m.ensureAccount(instr.Account)
	return acc.SetMetadataValue(instr.Key, instr.Value)
}

func (m *mockLedger) VisitRemoveKeyValue(ctx executor.Context, instr types.RemoveKeyValue) error {
	if !m.canMutateMetadata(ctx, instr.Account) {
		return coreerrors.Newf(coreerrors.KindPermissionDenied, "%s may not remove metadata on %s", ctx.Authority, instr.Account)
	}
	acc := m.ensureAccount(instr.Account)
	acc.RemoveMetadataKeys(instr.Key)
	return nil
}

func (m *mockLedger) VisitRegisterRole(ctx executor.Context, instr types.RegisterRole) error {
	if err := GuardReservedRole(ctx, m, instr.Role); err != nil {
		return err
	}
	if _, exists := m.roleMembers[instr.Role]; exists {
		return coreerrors.Newf(coreerrors.KindDuplicate, "role %s already registered", instr.Role)
	}
	m.roleCreators[instr.Role] = ctx.Authority
	m.roleMembers[instr.Role] = map[types.AccountID]struct{}{instr.GrantedTo: {}}
	return nil
}

func (m *mockLedger) VisitGrantAccountRole(ctx executor.Context, instr types.GrantAccountRole) error {
	creator, ok := m.roleCreators[instr.Role]
	if !ok || ctx.Authority != creator {
		return coreerrors.Newf(coreerrors.KindPermissionDenied, "%s may not grant role %s", ctx.Authority, instr.Role)
	}
	m.roleMembers[instr.Role][instr.Account] = struct{}{}
	return nil
}

func (m *mockLedger) VisitRevokeAccountRole(ctx executor.Context, instr types.RevokeAccountRole) error {
	creator, ok := m.roleCreators[instr.Role]
	if !ok || ctx.Authority != creator {
		return coreerrors.Newf(coreerrors.KindPermissionDenied, "%s may not revoke role %s", ctx.Authority, instr.Role)
	}
	delete(m.roleMembers[instr.Role], instr.Account)
	return nil
}

func (m *mockLedger) VisitInstruction(ctx executor.Context, instr types.Instruction) error {
	switch v := instr.(type) {
	case types.RegisterAccount:
		return m.VisitRegisterAccount(ctx, v)
	case types.SetKeyValue:
		return m.VisitSetKeyValue(ctx, v)
	case types.RemoveKeyValue:
		return m.VisitRemoveKeyValue(ctx, v)
	case types.RegisterRole:
		return m.VisitRegisterRole(ctx, v)
	case types.GrantAccountRole:
		return m.VisitGrantAccountRole(ctx, v)
	case types.RevokeAccountRole:
		return m.VisitRevokeAccountRole(ctx, v)
	case types.OpaqueInstruction:
		if !m.canMutateMetadata(ctx, v.Target) {
			return coreerrors.Newf(coreerrors.KindPermissionDenied, "%s may not act on %s", ctx.Authority, v.Target)
		}
		return nil
	case types.MultisigRegister:
		if err := m.bounds.CheckRegister(v.Quorum, v.TransactionTTLMs, len(v.Signatories)); err != nil {
			return err
		}
		if err := VisitRegister(ctx, m, v); err != nil {
			return err
		}
		return ExecuteRegister(ctx, m, v)
	case types.MultisigPropose:
		if err := VisitPropose(ctx, m, v); err != nil {
			return err
		}
		top := v.Account
		prevDispatching := m.dispatchingPropose
		m.dispatchingPropose = &top
		err := ExecutePropose(ctx, m, v)
		m.dispatchingPropose = prevDispatching
		return err
	case types.MultisigApprove:
		if err := VisitApprove(ctx, m, v); err != nil {
			return err
		}
		return ExecuteApprove(ctx, m, v)
	default:
		return coreerrors.Newf(coreerrors.KindBaseInstructionFailed, "unknown instruction kind %q", instr.Kind())
	}
}
