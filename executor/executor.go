package executor

import "msigchain/core/types"

// Executor is the capability the engine calls back into to validate and
// apply base instructions. Each Visit* method performs the corresponding
// base instruction's own authorization check (permission to register an
// account, to set a key/value pair, to grant a role, ...) under ctx's
// authority and, on success, applies the mutation; on failure it returns a
// *coreerrors.ValidationFail that must be propagated verbatim.
//
// Implementations are expected to also apply the mutation as part of the
// Visit call (the host executor's Visit and Execute phases are fused for
// base instructions; only the multisig instructions in this module have a
// separate admission-only Visit), matching how the rest of this codebase's
// native modules treat their own "visit_*" helpers as apply-or-fail calls.
type Executor interface {
	// Host returns the read-only query surface.
	Host() Host

	VisitRegisterAccount(ctx Context, instr types.RegisterAccount) error
	VisitSetKeyValue(ctx Context, instr types.SetKeyValue) error
	VisitRemoveKeyValue(ctx Context, instr types.RemoveKeyValue) error
	VisitRegisterRole(ctx Context, instr types.RegisterRole) error
	VisitGrantAccountRole(ctx Context, instr types.GrantAccountRole) error
	VisitRevokeAccountRole(ctx Context, instr types.RevokeAccountRole) error

	// VisitInstruction dispatches an arbitrary base instruction, including
	// one the engine does not otherwise interpret (types.OpaqueInstruction).
	// It is used to replay an authenticated multisig proposal's stored
	// instruction list.
	VisitInstruction(ctx Context, instr types.Instruction) error
}
