package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"msigchain/crypto"
)

// Instruction is a base ledger instruction the multisig engine can visit,
// execute, or embed inside a proposal's instruction list. The concrete set
// mirrors the host executor's base instruction kinds named in the engine's
// external interface contract (account/role/key-value mutations); anything
// else the host supports is carried opaquely so it still hashes and replays
// deterministically even though this package does not interpret it.
type Instruction interface {
	// Kind returns the stable discriminator used for canonical encoding and
	// dispatch. It must never change for a given concrete type.
	Kind() string
}

// RegisterAccount instructs the host to create a new, ordinary ledger
// account.
type RegisterAccount struct {
	Account AccountID `json:"account"`
}

// Kind implements Instruction.
func (RegisterAccount) Kind() string { return "register_account" }

// SetKeyValue instructs the host to write a single metadata entry on an
// account.
type SetKeyValue struct {
	Account AccountID       `json:"account"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
}

// Kind implements Instruction.
func (SetKeyValue) Kind() string { return "set_key_value" }

// RemoveKeyValue instructs the host to delete a single metadata entry from an
// account.
type RemoveKeyValue struct {
	Account AccountID `json:"account"`
	Key     string    `json:"key"`
}

// Kind implements Instruction.
func (RemoveKeyValue) Kind() string { return "remove_key_value" }

// RegisterRole instructs the host to create a new role, initially granted to
// GrantedTo.
type RegisterRole struct {
	Role      RoleID    `json:"role"`
	GrantedTo AccountID `json:"granted_to"`
}

// Kind implements Instruction.
func (RegisterRole) Kind() string { return "register_role" }

// GrantAccountRole instructs the host to grant an already-registered role to
// an account.
type GrantAccountRole struct {
	Role    RoleID    `json:"role"`
	Account AccountID `json:"account"`
}

// Kind implements Instruction.
func (GrantAccountRole) Kind() string { return "grant_account_role" }

// RevokeAccountRole instructs the host to revoke a role from an account.
type RevokeAccountRole struct {
	Role    RoleID    `json:"role"`
	Account AccountID `json:"account"`
}

// Kind implements Instruction.
func (RevokeAccountRole) Kind() string { return "revoke_account_role" }

// OpaqueInstruction carries a base instruction the engine itself does not
// need to interpret (e.g. a transfer, a domain mutation) so that instruction
// lists originating outside this package still hash and replay
// deterministically. Target names the account the instruction is checked
// against during replay, since the unauthorized-target test scenario in the
// engine's test suite depends on the host's own visit failing for it.
type OpaqueInstruction struct {
	Target  AccountID       `json:"target"`
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload"`
}

// Kind implements Instruction.
func (OpaqueInstruction) Kind() string { return "opaque" }

// Signatories maps each authorized account to its approval weight (1-255).
// It marshals as a slice of account/weight pairs sorted by AccountId rather
// than as a JSON object, since Go gives no ordering guarantee for a struct
// map key and the proposal hash and stored metadata must be byte-identical
// across validators.
type Signatories map[AccountID]uint8

type signatoryEntry struct {
	Account AccountID `json:"account"`
	Weight  uint8     `json:"weight"`
}

// MarshalJSON implements json.Marshaler.
func (s Signatories) MarshalJSON() ([]byte, error) {
	entries := make([]signatoryEntry, 0, len(s))
	for id, weight := range s {
		entries = append(entries, signatoryEntry{Account: id, Weight: weight})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Account.Less(entries[j].Account) })
	return json.Marshal(entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Signatories) UnmarshalJSON(data []byte) error {
	var entries []signatoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("types: decode signatories: %w", err)
	}
	out := make(Signatories, len(entries))
	for _, entry := range entries {
		out[entry.Account] = entry.Weight
	}
	*s = out
	return nil
}

// SortedAccounts returns the signatory accounts in ascending order.
func (s Signatories) SortedAccounts() []AccountID {
	ids := make([]AccountID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return SortAccountIDs(ids)
}

// MultisigRegister instructs the host to turn Account into a multisig
// account controlled by Signatories, requiring a weighted approval sum of at
// least Quorum on any proposal within TransactionTTLMs of its creation.
type MultisigRegister struct {
	Account          AccountID   `json:"account"`
	Signatories      Signatories `json:"signatories"`
	Quorum           uint16      `json:"quorum"`
	TransactionTTLMs uint64      `json:"transaction_ttl_ms"`
}

// Kind implements Instruction.
func (MultisigRegister) Kind() string { return "multisig_register" }

// multisigProposeWire is MultisigPropose's wire shape: the instruction list
// is carried pre-encoded through EncodeInstruction/DecodeInstruction so the
// sum type survives a round trip without depending on Go's dynamic type
// information.
type multisigProposeWire struct {
	Account      AccountID         `json:"account"`
	Instructions []json.RawMessage `json:"instructions"`
}

// MultisigPropose instructs the host to open a new proposal on Account for
// Instructions, the ordered instruction list a quorum of signatories must
// approve before it is replayed under Account's authority.
type MultisigPropose struct {
	Account      AccountID
	Instructions []Instruction
}

// Kind implements Instruction.
func (MultisigPropose) Kind() string { return "multisig_propose" }

// MarshalJSON implements json.Marshaler.
func (p MultisigPropose) MarshalJSON() ([]byte, error) {
	encoded, err := EncodeInstructions(p.Instructions)
	if err != nil {
		return nil, err
	}
	return json.Marshal(multisigProposeWire{Account: p.Account, Instructions: encoded})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *MultisigPropose) UnmarshalJSON(data []byte) error {
	var wire multisigProposeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("types: decode multisig_propose: %w", err)
	}
	instrs, err := DecodeInstructions(wire.Instructions)
	if err != nil {
		return err
	}
	p.Account = wire.Account
	p.Instructions = instrs
	return nil
}

// MultisigApprove instructs the host to record an approval against the
// proposal identified by InstructionsHash on Account.
type MultisigApprove struct {
	Account          AccountID   `json:"account"`
	InstructionsHash crypto.Hash `json:"instructions_hash"`
}

// Kind implements Instruction.
func (MultisigApprove) Kind() string { return "multisig_approve" }

// encodedInstruction is the canonical wire shape used for hashing and
// storage: a discriminator tag plus the instruction's own JSON encoding.
// Keeping the tag and the payload as sibling fields (rather than relying on
// Go's interface type information) is what makes the hash reproducible
// across processes.
type encodedInstruction struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeInstruction produces the canonical tagged encoding of instr.
func EncodeInstruction(instr Instruction) (json.RawMessage, error) {
	if instr == nil {
		return nil, fmt.Errorf("types: nil instruction")
	}
	payload, err := json.Marshal(instr)
	if err != nil {
		return nil, fmt.Errorf("types: encode instruction %s: %w", instr.Kind(), err)
	}
	wrapped, err := json.Marshal(encodedInstruction{Kind: instr.Kind(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("types: wrap instruction %s: %w", instr.Kind(), err)
	}
	return wrapped, nil
}

// DecodeInstruction reverses EncodeInstruction, dispatching on the stored
// discriminator.
func DecodeInstruction(raw json.RawMessage) (Instruction, error) {
	var wrapped encodedInstruction
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("types: decode instruction envelope: %w", err)
	}
	var instr Instruction
	switch wrapped.Kind {
	case RegisterAccount{}.Kind():
		instr = &RegisterAccount{}
	case SetKeyValue{}.Kind():
		instr = &SetKeyValue{}
	case RemoveKeyValue{}.Kind():
		instr = &RemoveKeyValue{}
	case RegisterRole{}.Kind():
		instr = &RegisterRole{}
	case GrantAccountRole{}.Kind():
		instr = &GrantAccountRole{}
	case RevokeAccountRole{}.Kind():
		instr = &RevokeAccountRole{}
	case OpaqueInstruction{}.Kind():
		instr = &OpaqueInstruction{}
	case MultisigRegister{}.Kind():
		instr = &MultisigRegister{}
	case MultisigPropose{}.Kind():
		instr = &MultisigPropose{}
	case MultisigApprove{}.Kind():
		instr = &MultisigApprove{}
	default:
		return nil, fmt.Errorf("types: unknown instruction kind %q", wrapped.Kind)
	}
	if err := json.Unmarshal(wrapped.Payload, instr); err != nil {
		return nil, fmt.Errorf("types: decode instruction %s: %w", wrapped.Kind, err)
	}
	// Dereference back to the value type so callers compare/marshal plain
	// structs rather than pointers.
	switch v := instr.(type) {
	case *RegisterAccount:
		return *v, nil
	case *SetKeyValue:
		return *v, nil
	case *RemoveKeyValue:
		return *v, nil
	case *RegisterRole:
		return *v, nil
	case *GrantAccountRole:
		return *v, nil
	case *RevokeAccountRole:
		return *v, nil
	case *OpaqueInstruction:
		return *v, nil
	case *MultisigRegister:
		return *v, nil
	case *MultisigPropose:
		return *v, nil
	case *MultisigApprove:
		return *v, nil
	}
	return instr, nil
}

// EncodeInstructions encodes an ordered instruction list for hashing and
// storage.
func EncodeInstructions(instrs []Instruction) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(instrs))
	for _, instr := range instrs {
		raw, err := EncodeInstruction(instr)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// HashInstructions returns the canonical hash of an ordered instruction
// list: the Keccak256 digest of the list's encoded-tagged-payload form. Two
// calls with logically identical instructions produce the same hash
// regardless of map iteration order inside any individual instruction, since
// every instruction type that carries a map (Signatories) marshals it as an
// account-sorted slice.
func HashInstructions(instrs []Instruction) (crypto.Hash, error) {
	encoded, err := EncodeInstructions(instrs)
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.HashOf(encoded)
}

// DecodeInstructions reverses EncodeInstructions.
func DecodeInstructions(raws []json.RawMessage) ([]Instruction, error) {
	out := make([]Instruction, 0, len(raws))
	for _, raw := range raws {
		instr, err := DecodeInstruction(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}
