// Package rpc exposes a thin read-only HTTP surface over a multisig
// account's state, mirroring the host's own executor.Host queries for
// off-chain callers (wallets polling a proposal's approval progress). It
// performs no mutation and holds no engine semantics of its own - every
// stored field in a response is read verbatim from executor.Host; the
// account and hash fields echo the request path.
package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"msigchain/core/types"
	"msigchain/crypto"
	"msigchain/executor"
	"msigchain/native/multisig"
)

// Server wires executor.Host reads into chi routes.
type Server struct {
	host executor.Host
}

// NewServer returns a Server backed by host.
func NewServer(host executor.Host) *Server {
	return &Server{host: host}
}

// Routes mounts the multisig read endpoints onto r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/multisig/accounts/{domain}/{name}", s.getAccount)
	r.Get("/multisig/accounts/{domain}/{name}/proposals/{hash}", s.getProposal)
}

type accountResponse struct {
	Account          types.AccountID    `json:"account"`
	Signatories      types.Signatories  `json:"signatories"`
	Quorum           uint16             `json:"quorum"`
	TransactionTTLMs uint64             `json:"transaction_ttl_ms"`
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	account := types.AccountID{Name: chi.URLParam(r, "name"), Domain: chi.URLParam(r, "domain")}

	var signatories types.Signatories
	if !readInto(w, s.host, account, multisig.MetadataKeySignatories, &signatories) {
		return
	}
	var quorum uint16
	if !readInto(w, s.host, account, multisig.MetadataKeyQuorum, &quorum) {
		return
	}
	var ttlMs uint64
	if !readInto(w, s.host, account, multisig.MetadataKeyTransactionTTLMs, &ttlMs) {
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		Account:          account,
		Signatories:      signatories,
		Quorum:           quorum,
		TransactionTTLMs: ttlMs,
	})
}

type proposalResponse struct {
	Account       types.AccountID          `json:"account"`
	Hash          string                   `json:"hash"`
	Approvals     multisig.ApprovalSet     `json:"approvals"`
	ProposedAtMs  uint64                   `json:"proposed_at_ms"`
}

func (s *Server) getProposal(w http.ResponseWriter, r *http.Request) {
	account := types.AccountID{Name: chi.URLParam(r, "name"), Domain: chi.URLParam(r, "domain")}
	h, err := crypto.HashFromHex(chi.URLParam(r, "hash"))
	if err != nil {
		http.Error(w, "malformed proposal hash", http.StatusBadRequest)
		return
	}

	var approvals multisig.ApprovalSet
	if !readInto(w, s.host, account, multisig.ApprovalsKey(h), &approvals) {
		return
	}
	var proposedAtMs uint64
	if !readInto(w, s.host, account, multisig.ProposedAtKey(h), &proposedAtMs) {
		return
	}

	writeJSON(w, http.StatusOK, proposalResponse{
		Account:      account,
		Hash:         h.Hex(),
		Approvals:    approvals,
		ProposedAtMs: proposedAtMs,
	})
}

// readInto reads account's key metadata entry into out, writing a 404 and
// returning false if the entry is absent or a 500 if the host read fails.
func readInto(w http.ResponseWriter, host executor.Host, account types.AccountID, key string, out interface{}) bool {
	raw, found, err := host.AccountMetadata(account, key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return false
	}
	if !found {
		http.Error(w, "not found", http.StatusNotFound)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
