package funding

import "errors"

// Validation errors: caller input malformed, rejected before any write.
var (
	ErrEmptyTitle                = errors.New("title is empty")
	ErrTitleTooLong              = errors.New("title too long")
	ErrDescriptionTooLong        = errors.New("description too long")
	ErrInvalidFundingGoal        = errors.New("funding goal must be greater than zero")
	ErrInvalidContributionAmount = errors.New("contribution amount must be greater than zero")
)

// State-conflict errors: the operation is well-formed but illegal in the
// record's current lifecycle state.
var (
	ErrProjectFinalized        = errors.New("project is finalized")
	ErrProjectAlreadyFinalized = errors.New("project already finalized")
	ErrProjectNotFinalized     = errors.New("project not finalized")
	ErrProjectNotExpired       = errors.New("project deadline has not passed")
	ErrProjectSucceeded        = errors.New("project succeeded")
	ErrAlreadyRefunded         = errors.New("contribution already refunded")
	ErrAmountOverflow          = errors.New("amount overflow")
)

// Authorization errors: the caller is not the required party.
var (
	ErrUnauthorizedCreator     = errors.New("caller is not the project creator")
	ErrUnauthorizedContributor = errors.New("caller is not the contribution owner")
	ErrInvalidContribution     = errors.New("contribution does not belong to project")
)

// Pre-existing-state and lookup errors.
var (
	ErrAlreadyInitialized    = errors.New("counter already initialized")
	ErrCounterNotInitialized = errors.New("counter not initialized")
	ErrContributionExists    = errors.New("contribution address already occupied")
	ErrProjectNotFound       = errors.New("project not found")
	ErrContributionNotFound  = errors.New("contribution not found")
	ErrVaultNotFound         = errors.New("vault not found")
	ErrInsufficientFunds     = errors.New("insufficient funds")
)
