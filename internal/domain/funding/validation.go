package funding

import "unicode/utf8"

// ValidateProjectInput checks project creation inputs. Checks run in a fixed
// order and the first failing check wins.
func ValidateProjectInput(title, description string, fundingGoal uint64) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if fundingGoal == 0 {
		return ErrInvalidFundingGoal
	}
	return nil
}

// ValidateContributionAmount rejects zero-value pledges.
func ValidateContributionAmount(amount uint64) error {
	if amount == 0 {
		return ErrInvalidContributionAmount
	}
	return nil
}
