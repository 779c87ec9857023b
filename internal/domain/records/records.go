// Package records holds the crowdfunding ledger record types. It is a leaf
// package so that both the funding engine and the repository interfaces can
// share the definitions without an import cycle; the funding package aliases
// every name here, so callers keep using funding.Project and friends.
package records

import (
	"time"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/identity"
)

// Input limits for project creation.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// ProjectStatus is the campaign lifecycle state. Finalization is terminal:
// an open project moves to exactly one of succeeded or failed, never back.
type ProjectStatus string

const (
	StatusOpen      ProjectStatus = "open"
	StatusSucceeded ProjectStatus = "succeeded"
	StatusFailed    ProjectStatus = "failed"
)

// IsFinalized reports whether the project has been resolved.
func (s ProjectStatus) IsFinalized() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// IsSuccess reports whether the project resolved successfully.
func (s ProjectStatus) IsSuccess() bool {
	return s == StatusSucceeded
}

// Valid reports whether s is a known status value.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// Counter is the single global record handing out project identifiers.
type Counter struct {
	Address addr.Address `json:"address"`
	Count   uint64       `json:"count"`
}

// Project is one funding campaign.
type Project struct {
	Address     addr.Address       `json:"address"`
	Creator     identity.PublicKey `json:"creator"`
	ProjectID   uint64             `json:"project_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	FundingGoal uint64             `json:"funding_goal"`
	Deadline    time.Time          `json:"deadline"`
	Status      ProjectStatus      `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Vault holds the undistributed contributed funds for one project.
type Vault struct {
	Address     addr.Address `json:"address"`
	Project     addr.Address `json:"project"`
	TotalAmount uint64       `json:"total_amount"`
}

// Contribution is one pledge. Funds live in the vault, not here; the record
// tracks ownership and refund status.
type Contribution struct {
	Address     addr.Address       `json:"address"`
	Contributor identity.PublicKey `json:"contributor"`
	Project     addr.Address       `json:"project"`
	Amount      uint64             `json:"amount"`
	Timestamp   int64              `json:"timestamp"`
	Refunded    bool               `json:"refunded"`
}

// JournalEntry is one committed transition in the append-only operation log.
type JournalEntry struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Signer    string    `json:"signer"`
	Details   string    `json:"details,omitempty"`
	AppliedAt time.Time `json:"applied_at"`
}
