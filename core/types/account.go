package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AccountID identifies a ledger account by its signatory name within a
// domain, mirroring the (name, domain) pair the rest of the ledger's
// account registry keys on.
type AccountID struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// String renders the canonical "name@domain" form used in logs and error
// messages. Multisig role names use a "<domain>/<name>" form instead (see
// native/multisig.MultisigRoleFor).
func (id AccountID) String() string {
	return id.Name + "@" + id.Domain
}

// Empty reports whether the account id is the zero value.
func (id AccountID) Empty() bool {
	return id.Name == "" && id.Domain == ""
}

// Less provides the total order used everywhere a collection of AccountIDs
// must be iterated deterministically.
func (id AccountID) Less(other AccountID) bool {
	if id.Domain != other.Domain {
		return id.Domain < other.Domain
	}
	return id.Name < other.Name
}

// ParseAccountID parses the canonical "name@domain" representation produced
// by String.
func ParseAccountID(s string) (AccountID, error) {
	name, domain, ok := strings.Cut(s, "@")
	if !ok || name == "" || domain == "" {
		return AccountID{}, fmt.Errorf("types: malformed account id %q", s)
	}
	return AccountID{Name: name, Domain: domain}, nil
}

// RoleID identifies a registered role by its name.
type RoleID string

// SortAccountIDs returns a new, ascending-sorted copy of ids. Used whenever a
// set of accounts must be traversed in a validator-independent order.
func SortAccountIDs(ids []AccountID) []AccountID {
	out := make([]AccountID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Account is the subset of ledger account state the multisig engine reads
// and mutates: an arbitrary key/value metadata store. Role membership is
// tracked by the host's own role registry, not on the account itself - see
// executor.Host.RolesByAccount/RoleExists.
type Account struct {
	ID       AccountID                  `json:"id"`
	Metadata map[string]json.RawMessage `json:"metadata"`
}

// NewAccount returns an empty account for id with initialised maps.
func NewAccount(id AccountID) *Account {
	return &Account{
		ID:       id,
		Metadata: make(map[string]json.RawMessage),
	}
}

// MetadataValue unmarshals the metadata entry stored under key into out.
// It reports whether the key was present.
func (a *Account) MetadataValue(key string, out interface{}) (bool, error) {
	if a == nil || a.Metadata == nil {
		return false, nil
	}
	raw, ok := a.Metadata[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("types: decode metadata %q: %w", key, err)
	}
	return true, nil
}

// SetMetadataValue marshals value and stores it under key.
func (a *Account) SetMetadataValue(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("types: encode metadata %q: %w", key, err)
	}
	if a.Metadata == nil {
		a.Metadata = make(map[string]json.RawMessage)
	}
	a.Metadata[key] = raw
	return nil
}

// RemoveMetadataKeys deletes every listed key, ignoring keys that are absent.
func (a *Account) RemoveMetadataKeys(keys ...string) {
	if a == nil || a.Metadata == nil {
		return
	}
	for _, key := range keys {
		delete(a.Metadata, key)
	}
}
