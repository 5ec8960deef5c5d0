// Package config loads the runtime knobs the multisig engine's host is
// expected to enforce before installing a Register instruction: default
// quorum and TTL bounds, and the reserved role prefix, instead of those
// values being hardcoded magic numbers scattered across callers.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Multisig bundles the bounds a host applies when admitting a
// MultisigRegister instruction. The engine itself does not read this
// struct - it is the caller's job to reject a Register whose Quorum or
// TransactionTTLMs falls outside these bounds before ever invoking
// multisig.VisitRegister.
type Multisig struct {
	// ReservedRolePrefix must match native/multisig.ReservedRolePrefix.
	// Kept configurable here, rather than only as a Go constant, so a
	// deployment can audit the active prefix from its config file.
	ReservedRolePrefix string `toml:"ReservedRolePrefix"`
	// MinQuorum and MaxQuorum bound the Quorum field a Register may set.
	MinQuorum uint16 `toml:"MinQuorum"`
	MaxQuorum uint16 `toml:"MaxQuorum"`
	// MinTransactionTTLMs and MaxTransactionTTLMs bound a proposal's TTL,
	// in milliseconds. MaxTransactionTTLMs of 0 means unbounded.
	MinTransactionTTLMs uint64 `toml:"MinTransactionTTLMs"`
	MaxTransactionTTLMs uint64 `toml:"MaxTransactionTTLMs"`
	// MaxSignatories bounds the size of a Register's signatory map, to keep
	// the recursive deployment in Propose from fanning out unboundedly.
	MaxSignatories int `toml:"MaxSignatories"`
}

// Config is the top-level runtime configuration this module loads.
type Config struct {
	Multisig Multisig `toml:"Multisig"`
}

// DefaultMultisig returns the built-in default bounds, for a caller (such as
// a host's dispatch layer) that needs a Multisig value without loading a
// config file from disk.
func DefaultMultisig() Multisig {
	return defaults().Multisig
}

func defaults() Config {
	return Config{
		Multisig: Multisig{
			ReservedRolePrefix:  "MULTISIG_SIGNATORY/",
			MinQuorum:           1,
			MaxQuorum:           65535,
			MinTransactionTTLMs: 1000,
			MaxTransactionTTLMs: 0,
			MaxSignatories:      128,
		},
	}
}

// Load reads the TOML configuration at path, writing out a default file if
// none exists yet.
func Load(path string) (Config, error) {
	cfg := defaults()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, createDefault(path, cfg)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Multisig.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func createDefault(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}

// Validate reports whether m's bounds are internally consistent.
func (m Multisig) Validate() error {
	if m.ReservedRolePrefix == "" {
		return fmt.Errorf("config: ReservedRolePrefix must not be empty")
	}
	if m.MinQuorum == 0 {
		return fmt.Errorf("config: MinQuorum must be at least 1")
	}
	if m.MinQuorum > m.MaxQuorum {
		return fmt.Errorf("config: MinQuorum %d exceeds MaxQuorum %d", m.MinQuorum, m.MaxQuorum)
	}
	if m.MaxTransactionTTLMs != 0 && m.MinTransactionTTLMs > m.MaxTransactionTTLMs {
		return fmt.Errorf("config: MinTransactionTTLMs %d exceeds MaxTransactionTTLMs %d", m.MinTransactionTTLMs, m.MaxTransactionTTLMs)
	}
	if m.MaxSignatories <= 0 {
		return fmt.Errorf("config: MaxSignatories must be positive")
	}
	return nil
}

// CheckRegister reports whether a proposed Register's quorum, TTL, and
// signatory count fall inside m's configured bounds.
func (m Multisig) CheckRegister(quorum uint16, ttlMs uint64, signatoryCount int) error {
	if quorum < m.MinQuorum || quorum > m.MaxQuorum {
		return fmt.Errorf("config: quorum %d outside allowed range [%d, %d]", quorum, m.MinQuorum, m.MaxQuorum)
	}
	if ttlMs < m.MinTransactionTTLMs {
		return fmt.Errorf("config: transaction_ttl_ms %d below minimum %d", ttlMs, m.MinTransactionTTLMs)
	}
	if m.MaxTransactionTTLMs != 0 && ttlMs > m.MaxTransactionTTLMs {
		return fmt.Errorf("config: transaction_ttl_ms %d exceeds maximum %d", ttlMs, m.MaxTransactionTTLMs)
	}
	if signatoryCount > m.MaxSignatories {
		return fmt.Errorf("config: %d signatories exceeds maximum %d", signatoryCount, m.MaxSignatories)
	}
	return nil
}
