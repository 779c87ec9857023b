package mcp

import (
	"time"

	"github.com/rpggio/crowdvault/internal/domain/funding"
)

// Signed carries the caller identity and proof for state-changing tools. The
// signature covers the operation's canonical message; see the identity
// package for the encoding.
type Signed struct {
	Signer    string `json:"signer" jsonschema:"hex-encoded ed25519 public key of the caller"`
	Signature string `json:"signature" jsonschema:"hex-encoded ed25519 signature over the canonical operation message"`
}

// InitializeCounterInput is the input for the initialize_counter tool.
type InitializeCounterInput struct {
	Signed
}

// CounterResult is the output for counter tools.
type CounterResult struct {
	Address string `json:"address" jsonschema:"counter address"`
	Count   uint64 `json:"count" jsonschema:"number of projects created so far"`
}

// InitializeProjectInput is the input for the initialize_project tool.
type InitializeProjectInput struct {
	Signed
	Title       string `json:"title" jsonschema:"project title, 1 to 100 characters"`
	Description string `json:"description,omitempty" jsonschema:"project description, up to 500 characters"`
	FundingGoal uint64 `json:"funding_goal" jsonschema:"amount to raise, must be greater than zero"`
}

// ProjectResult is the output for project tools.
type ProjectResult struct {
	Address     string `json:"address" jsonschema:"project address"`
	Creator     string `json:"creator" jsonschema:"creator public key"`
	ProjectID   uint64 `json:"project_id" jsonschema:"global sequence number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	FundingGoal uint64 `json:"funding_goal"`
	Deadline    string `json:"deadline" jsonschema:"RFC3339 funding deadline"`
	Status      string `json:"status" jsonschema:"open, succeeded or failed"`
	CreatedAt   string `json:"created_at" jsonschema:"RFC3339 creation time"`
}

// ContributeInput is the input for the contribute tool.
type ContributeInput struct {
	Signed
	Project   string `json:"project" jsonschema:"project address"`
	Amount    uint64 `json:"amount" jsonschema:"amount to pledge, must be greater than zero"`
	Timestamp int64  `json:"timestamp" jsonschema:"unix timestamp distinguishing this pledge from the signer's others"`
}

// ContributionResult is the output for contribution tools.
type ContributionResult struct {
	Address     string `json:"address" jsonschema:"contribution address"`
	Contributor string `json:"contributor" jsonschema:"contributor public key"`
	Project     string `json:"project" jsonschema:"project address"`
	Amount      uint64 `json:"amount"`
	Timestamp   int64  `json:"timestamp"`
	Refunded    bool   `json:"refunded"`
}

// FinalizeProjectInput is the input for the finalize_project tool.
type FinalizeProjectInput struct {
	Signed
	Project string `json:"project" jsonschema:"project address"`
}

// ClaimRefundInput is the input for the claim_refund tool.
type ClaimRefundInput struct {
	Signed
	Project      string `json:"project" jsonschema:"project address"`
	Contribution string `json:"contribution" jsonschema:"contribution address to refund"`
}

// AirdropInput is the input for the airdrop tool.
type AirdropInput struct {
	Signed
	Amount uint64 `json:"amount" jsonschema:"amount to credit to the signer's wallet"`
}

// BalanceResult is the output for balance tools.
type BalanceResult struct {
	Address string `json:"address" jsonschema:"account address"`
	Balance uint64 `json:"balance" jsonschema:"current balance, zero for unknown accounts"`
}

// GetProjectInput is the input for the get_project tool.
type GetProjectInput struct {
	Project string `json:"project" jsonschema:"project address"`
}

// ListProjectsInput is the input for the list_projects tool.
type ListProjectsInput struct{}

// ProjectListResult is the output for the list_projects tool.
type ProjectListResult struct {
	Projects []ProjectResult `json:"projects"`
}

// GetVaultInput is the input for the get_vault tool.
type GetVaultInput struct {
	Project string `json:"project" jsonschema:"project address"`
}

// VaultResult is the output for vault tools.
type VaultResult struct {
	Address     string `json:"address" jsonschema:"vault address"`
	Project     string `json:"project" jsonschema:"project address"`
	TotalAmount uint64 `json:"total_amount" jsonschema:"funds currently held in escrow"`
}

// ListContributionsInput is the input for the list_contributions tool.
type ListContributionsInput struct {
	Project string `json:"project" jsonschema:"project address"`
}

// ContributionListResult is the output for the list_contributions tool.
type ContributionListResult struct {
	Contributions []ContributionResult `json:"contributions"`
}

// GetCounterInput is the input for the get_counter tool.
type GetCounterInput struct{}

// GetBalanceInput is the input for the get_balance tool.
type GetBalanceInput struct {
	Address string `json:"address" jsonschema:"wallet or vault address"`
}

func toProjectResult(p *funding.Project) ProjectResult {
	return ProjectResult{
		Address:     p.Address.String(),
		Creator:     p.Creator.String(),
		ProjectID:   p.ProjectID,
		Title:       p.Title,
		Description: p.Description,
		FundingGoal: p.FundingGoal,
		Deadline:    p.Deadline.UTC().Format(time.RFC3339),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toContributionResult(c *funding.Contribution) ContributionResult {
	return ContributionResult{
		Address:     c.Address.String(),
		Contributor: c.Contributor.String(),
		Project:     c.Project.String(),
		Amount:      c.Amount,
		Timestamp:   c.Timestamp,
		Refunded:    c.Refunded,
	}
}
