package multisig

import (
	"strings"

	coreerrors "msigchain/core/errors"
	"msigchain/core/types"
	"msigchain/crypto"
	"msigchain/executor"
)

// ReservedRolePrefix namespaces every multisig role this engine creates.
// Registering a role with this prefix through any path other than Register
// (or the domain owner acting directly) must be refused, since the prefix is
// the only thing stopping an outside party from forging the authenticated
// capability to approve on someone else's multisig account.
const ReservedRolePrefix = "MULTISIG_SIGNATORY/"

// MultisigRoleFor returns the canonical role name granted to every
// signatory of account: MULTISIG_SIGNATORY/<domain>/<signatory>. Holding
// this role is the authenticated capability to Approve on account.
func MultisigRoleFor(account types.AccountID) types.RoleID {
	return types.RoleID(ReservedRolePrefix + account.Domain + "/" + account.Name)
}

// IsReservedRoleName reports whether name falls inside the multisig role
// namespace and therefore may only be registered via Register or by a
// domain owner.
func IsReservedRoleName(name string) bool {
	return strings.HasPrefix(name, ReservedRolePrefix)
}

const proposalKeyPrefix = "proposals/"

// InstructionsKey returns the metadata key holding a proposal's ordered
// instruction list.
func InstructionsKey(h crypto.Hash) string {
	return proposalKeyPrefix + h.Hex() + "/instructions"
}

// ProposedAtKey returns the metadata key holding a proposal's creation time,
// in block-creation-time milliseconds.
func ProposedAtKey(h crypto.Hash) string {
	return proposalKeyPrefix + h.Hex() + "/proposed_at_ms"
}

// ApprovalsKey returns the metadata key holding a proposal's current
// approval set.
func ApprovalsKey(h crypto.Hash) string {
	return proposalKeyPrefix + h.Hex() + "/approvals"
}

const (
	// MetadataKeySignatories holds a multisig account's signatory map.
	MetadataKeySignatories = "signatories"
	// MetadataKeyQuorum holds a multisig account's weighted quorum.
	MetadataKeyQuorum = "quorum"
	// MetadataKeyTransactionTTLMs holds a multisig account's proposal TTL.
	MetadataKeyTransactionTTLMs = "transaction_ttl_ms"
)

// NeverExpires is the transaction_ttl_ms sentinel meaning a proposal never
// expires.
const NeverExpires uint64 = ^uint64(0)

// ParseReservedRole splits a MULTISIG_SIGNATORY/<domain>/<signatory> role
// name into its domain and signatory parts. ok is false for any role name
// outside the reserved namespace.
func ParseReservedRole(role types.RoleID) (domain, signatory string, ok bool) {
	s := string(role)
	if !strings.HasPrefix(s, ReservedRolePrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(s, ReservedRolePrefix)
	domain, signatory, found := strings.Cut(rest, "/")
	if !found {
		return "", "", false
	}
	return domain, signatory, true
}

// GuardReservedRole denies registering role under ctx's authority unless
// role falls outside the reserved multisig namespace or the caller is the
// role's domain owner. The register handler itself always satisfies this
// (it registers roles under the domain-owner authority it rebinds to); this
// guard exists so the host's own RegisterRole admission can refuse a direct
// attempt to forge a multisig role from outside this engine.
func GuardReservedRole(ctx executor.Context, host executor.Host, role types.RoleID) error {
	domain, _, ok := ParseReservedRole(role)
	if !ok {
		return nil
	}
	owner, err := host.DomainOwner(domain)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindBaseInstructionFailed, "lookup domain owner", err)
	}
	if ctx.Authority != owner {
		return denyf(coreerrors.KindPermissionDenied, ErrReservedRoleNamespace, "role %q is reserved for multisig signatories", role)
	}
	return nil
}
