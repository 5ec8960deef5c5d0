package executor

import (
	"encoding/json"

	"msigchain/core/types"
)

// Host is the read-only query surface the engine consults. It corresponds to
// the "Upward (consumed from the host executor)" queries: domain ownership,
// role membership, and account metadata lookup. Every method returns results
// in a deterministic order where order is observable, since the host is
// expected to back these queries with ordered storage.
type Host interface {
	// DomainOwner returns the account that owns domain.
	DomainOwner(domain string) (types.AccountID, error)
	// RolesByAccount returns the roles granted to account, in ascending
	// order.
	RolesByAccount(account types.AccountID) ([]types.RoleID, error)
	// RoleExists reports whether role has been registered on the ledger.
	RoleExists(role types.RoleID) (bool, error)
	// AccountMetadata returns the metadata value stored under key on
	// account, and whether it was present.
	AccountMetadata(account types.AccountID, key string) (json.RawMessage, bool, error)
}
