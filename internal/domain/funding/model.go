// Package funding holds the crowdfunding ledger records and the transition
// engine that mutates them. Every operation executes as one atomic store
// transaction: it either fully applies or leaves no trace.
package funding

import (
	"github.com/rpggio/crowdvault/internal/domain/records"
)

// Record definitions live in the records leaf package so the repository
// interfaces can reference them without importing the engine; the aliases
// below keep funding.Project and friends as the canonical names.

// Input limits for project creation.
const (
	MaxTitleLength       = records.MaxTitleLength
	MaxDescriptionLength = records.MaxDescriptionLength
)

// ProjectStatus is the campaign lifecycle state. Finalization is terminal:
// an open project moves to exactly one of succeeded or failed, never back.
type ProjectStatus = records.ProjectStatus

const (
	StatusOpen      = records.StatusOpen
	StatusSucceeded = records.StatusSucceeded
	StatusFailed    = records.StatusFailed
)

type (
	// Counter is the single global record handing out project identifiers.
	Counter = records.Counter
	// Project is one funding campaign.
	Project = records.Project
	// Vault holds the undistributed contributed funds for one project.
	Vault = records.Vault
	// Contribution is one pledge. Funds live in the vault, not here; the
	// record tracks ownership and refund status.
	Contribution = records.Contribution
	// JournalEntry is one committed transition in the append-only operation log.
	JournalEntry = records.JournalEntry
)
