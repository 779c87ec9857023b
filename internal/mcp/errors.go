package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors pass through
// untranslated.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, funding.ErrEmptyTitle):
		return &APIError{Code: "EMPTY_TITLE", Message: "title must not be empty"}
	case errors.Is(err, funding.ErrTitleTooLong):
		return &APIError{Code: "TITLE_TOO_LONG", Message: fmt.Sprintf("title exceeds %d characters", funding.MaxTitleLength)}
	case errors.Is(err, funding.ErrDescriptionTooLong):
		return &APIError{Code: "DESCRIPTION_TOO_LONG", Message: fmt.Sprintf("description exceeds %d characters", funding.MaxDescriptionLength)}
	case errors.Is(err, funding.ErrInvalidFundingGoal):
		return &APIError{Code: "INVALID_FUNDING_GOAL", Message: "funding goal must be greater than zero"}
	case errors.Is(err, funding.ErrInvalidContributionAmount):
		return &APIError{Code: "INVALID_AMOUNT", Message: "contribution amount must be greater than zero"}
	case errors.Is(err, funding.ErrAlreadyInitialized):
		return &APIError{Code: "ALREADY_INITIALIZED", Message: "counter already initialized"}
	case errors.Is(err, funding.ErrCounterNotInitialized):
		return &APIError{Code: "COUNTER_NOT_INITIALIZED", Message: "counter not initialized", RecoveryHint: "Call initialize_counter first"}
	case errors.Is(err, funding.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the project address"}
	case errors.Is(err, funding.ErrVaultNotFound):
		return &APIError{Code: "VAULT_NOT_FOUND", Message: "vault not found", RecoveryHint: "Check the project address"}
	case errors.Is(err, funding.ErrContributionNotFound):
		return &APIError{Code: "CONTRIBUTION_NOT_FOUND", Message: "contribution not found", RecoveryHint: "Check the contribution address"}
	case errors.Is(err, funding.ErrContributionExists):
		return &APIError{Code: "CONTRIBUTION_EXISTS", Message: "a contribution with this timestamp already exists", RecoveryHint: "Retry with a fresh timestamp"}
	case errors.Is(err, funding.ErrProjectFinalized):
		return &APIError{Code: "PROJECT_FINALIZED", Message: "project is already finalized"}
	case errors.Is(err, funding.ErrProjectAlreadyFinalized):
		return &APIError{Code: "ALREADY_FINALIZED", Message: "project is already finalized"}
	case errors.Is(err, funding.ErrProjectNotFinalized):
		return &APIError{Code: "NOT_FINALIZED", Message: "project is not finalized yet", RecoveryHint: "Wait for finalize_project"}
	case errors.Is(err, funding.ErrProjectNotExpired):
		return &APIError{Code: "NOT_EXPIRED", Message: "project deadline has not passed"}
	case errors.Is(err, funding.ErrProjectSucceeded):
		return &APIError{Code: "PROJECT_SUCCEEDED", Message: "project succeeded, refunds are not available"}
	case errors.Is(err, funding.ErrAlreadyRefunded):
		return &APIError{Code: "ALREADY_REFUNDED", Message: "contribution already refunded"}
	case errors.Is(err, funding.ErrUnauthorizedCreator):
		return &APIError{Code: "UNAUTHORIZED", Message: "only the project creator can finalize"}
	case errors.Is(err, funding.ErrUnauthorizedContributor):
		return &APIError{Code: "UNAUTHORIZED", Message: "only the contribution owner can claim its refund"}
	case errors.Is(err, funding.ErrInvalidContribution):
		return &APIError{Code: "INVALID_CONTRIBUTION", Message: "contribution does not belong to this project"}
	case errors.Is(err, funding.ErrInsufficientFunds):
		return &APIError{Code: "INSUFFICIENT_FUNDS", Message: "wallet balance too low", RecoveryHint: "Fund the wallet with airdrop"}
	case errors.Is(err, funding.ErrAmountOverflow):
		return &APIError{Code: "AMOUNT_OVERFLOW", Message: "vault total would overflow"}
	case errors.Is(err, addr.ErrInvalidAddress):
		return &APIError{Code: "INVALID_ADDRESS", Message: "malformed address"}
	case errors.Is(err, identity.ErrInvalidKey):
		return &APIError{Code: "INVALID_KEY", Message: "malformed public key"}
	case errors.Is(err, identity.ErrInvalidSignature):
		return &APIError{Code: "INVALID_SIGNATURE", Message: "signature verification failed", RecoveryHint: "Sign the canonical operation message with the signer key"}
	default:
		return err
	}
}
