package models

const (
	VoteAdd    = 1
	VoteRemove = -1
)

// VoteResult is the service's acknowledgement of a vote mutation.
type VoteResult struct {
	QuoteID         ID  `json:"quote_id"`
	VoteValue       int `json:"vote_value"`
	PreviousQuoteID ID  `json:"previous_quote_id"`
}

// VoteEligibility answers whether the current user may vote on a quote.
type VoteEligibility struct {
	QuoteID ID   `json:"quote_id"`
	CanVote bool `json:"can_vote"`
	Reasons struct {
		QuoteHasZeroVotes bool `json:"quote_has_zero_votes"`
		UserHasNotVoted   bool `json:"user_has_not_voted"`
	} `json:"reasons"`
	ExistingVote *struct {
		VoteValue int `json:"vote_value"`
	} `json:"existing_vote"`
}
