package multisig

import (
	"encoding/json"
	"fmt"
	"math"

	"msigchain/core/types"
)

// ApprovalSet is the set of accounts that have approved a proposal. It
// marshals as an account-sorted slice, not a JSON object, for the same
// cross-validator determinism reason as types.Signatories.
type ApprovalSet map[types.AccountID]struct{}

// NewApprovalSet returns a set containing exactly ids.
func NewApprovalSet(ids ...types.AccountID) ApprovalSet {
	set := make(ApprovalSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add inserts id into the set.
func (s ApprovalSet) Add(id types.AccountID) { s[id] = struct{}{} }

// Contains reports whether id has approved.
func (s ApprovalSet) Contains(id types.AccountID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the set's members in ascending AccountId order.
func (s ApprovalSet) Sorted() []types.AccountID {
	ids := make([]types.AccountID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return types.SortAccountIDs(ids)
}

// WeightedSum returns the saturating (uint16) sum of the weights, from sig,
// of every account in s that sig still lists as a signatory. Approvers no
// longer present in sig silently do not contribute.
func (s ApprovalSet) WeightedSum(sig types.Signatories) uint16 {
	var sum uint32
	for id, weight := range sig {
		if s.Contains(id) {
			sum += uint32(weight)
		}
	}
	if sum > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(sum)
}

// MarshalJSON implements json.Marshaler.
func (s ApprovalSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ApprovalSet) UnmarshalJSON(data []byte) error {
	var ids []types.AccountID
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("multisig: decode approvals: %w", err)
	}
	out := make(ApprovalSet, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	*s = out
	return nil
}

// saturatingAddU64 adds a and b, clamping to math.MaxUint64 on overflow
// instead of wrapping. transaction_ttl_ms may legitimately be
// math.MaxUint64 ("never expires"), so expiration arithmetic must never
// wrap around to a small value.
func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}
