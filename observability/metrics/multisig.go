// Package metrics exposes the prometheus collectors the multisig engine's
// host is expected to drive from its own VisitInstruction dispatch, since
// the engine package itself stays free of any observability dependency
// (SPEC_FULL.md §7).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Multisig collects counters for every externally observable transition the
// engine's Propose/Approve handlers go through: proposals opened, approvals
// recorded, quorum reached, and expirations observed on approve.
type Multisig struct {
	proposalsOpened   *prometheus.CounterVec
	approvalsRecorded *prometheus.CounterVec
	quorumReached     *prometheus.CounterVec
	expirationsSeen   *prometheus.CounterVec
	recursiveDeploys  *prometheus.CounterVec
}

var (
	multisigOnce     sync.Once
	multisigRegistry *Multisig
)

// MultisigMetrics returns the lazily-initialised multisig metrics registry.
func MultisigMetrics() *Multisig {
	multisigOnce.Do(func() {
		multisigRegistry = &Multisig{
			proposalsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "multisig",
				Name:      "proposals_opened_total",
				Help:      "Count of proposals opened via Propose, by multisig domain.",
			}, []string{"domain"}),
			approvalsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "multisig",
				Name:      "approvals_recorded_total",
				Help:      "Count of approvals recorded via Approve, by multisig domain.",
			}, []string{"domain"}),
			quorumReached: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "multisig",
				Name:      "quorum_reached_total",
				Help:      "Count of approvals that reached quorum and replayed their instructions.",
			}, []string{"domain"}),
			expirationsSeen: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "multisig",
				Name:      "proposal_expirations_total",
				Help:      "Count of approvals that observed an expired proposal and cleaned it up.",
			}, []string{"domain"}),
			recursiveDeploys: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "multisig",
				Name:      "recursive_deploys_total",
				Help:      "Count of nested Propose sub-transactions deployed into a signatory that is itself a multisig account.",
			}, []string{"domain"}),
		}
		prometheus.MustRegister(
			multisigRegistry.proposalsOpened,
			multisigRegistry.approvalsRecorded,
			multisigRegistry.quorumReached,
			multisigRegistry.expirationsSeen,
			multisigRegistry.recursiveDeploys,
		)
	})
	return multisigRegistry
}

// RecordProposalOpened increments the proposals-opened counter for domain.
func (m *Multisig) RecordProposalOpened(domain string) {
	if m == nil {
		return
	}
	m.proposalsOpened.WithLabelValues(domain).Inc()
}

// RecordApproval increments the approvals-recorded counter for domain.
func (m *Multisig) RecordApproval(domain string) {
	if m == nil {
		return
	}
	m.approvalsRecorded.WithLabelValues(domain).Inc()
}

// RecordQuorumReached increments the quorum-reached counter for domain.
func (m *Multisig) RecordQuorumReached(domain string) {
	if m == nil {
		return
	}
	m.quorumReached.WithLabelValues(domain).Inc()
}

// RecordExpiration increments the expirations-seen counter for domain.
func (m *Multisig) RecordExpiration(domain string) {
	if m == nil {
		return
	}
	m.expirationsSeen.WithLabelValues(domain).Inc()
}

// RecordRecursiveDeploy increments the recursive-deploy counter for domain.
func (m *Multisig) RecordRecursiveDeploy(domain string) {
	if m == nil {
		return
	}
	m.recursiveDeploys.WithLabelValues(domain).Inc()
}

// ProposalsOpenedVec exposes the proposals-opened counter for assertions.
func (m *Multisig) ProposalsOpenedVec() *prometheus.CounterVec { return m.proposalsOpened }

// ApprovalsRecordedVec exposes the approvals-recorded counter for assertions.
func (m *Multisig) ApprovalsRecordedVec() *prometheus.CounterVec { return m.approvalsRecorded }

// QuorumReachedVec exposes the quorum-reached counter for assertions.
func (m *Multisig) QuorumReachedVec() *prometheus.CounterVec { return m.quorumReached }

// ExpirationsSeenVec exposes the expirations-seen counter for assertions.
func (m *Multisig) ExpirationsSeenVec() *prometheus.CounterVec { return m.expirationsSeen }

// RecursiveDeploysVec exposes the recursive-deploy counter for assertions.
func (m *Multisig) RecursiveDeploysVec() *prometheus.CounterVec { return m.recursiveDeploys }
