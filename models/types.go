package models

import "time"

// Header carrying the caller's principal token
const HeaderPrincipalToken = "X-Principal-Token"

// Request types

type CreateBallotRequest struct {
	Proposals []string `json:"proposals"`
}

type AddProposalRequest struct {
	Name string `json:"name"`
}

type AddVoterRequest struct {
	Voter string `json:"voter"`
}

type DelegateRequest struct {
	To string `json:"to"`
}

// Index is a pointer so a missing field is distinguishable from proposal 0
type VoteRequest struct {
	Proposal *int `json:"proposal"`
}

// Response types

type IssuePrincipalResponse struct {
	Token       string `json:"token"`
	PrincipalID string `json:"principal_id"`
}

type PrincipalResponse struct {
	PrincipalID string `json:"principal_id"`
}

type CreateBallotResponse struct {
	BallotID    string `json:"ballot_id"`
	Chairperson string `json:"chairperson"`
}

type ChairpersonResponse struct {
	Chairperson string `json:"chairperson"`
}

type AddProposalResponse struct {
	Index int `json:"index"`
}

type ProposalCountResponse struct {
	Count int `json:"count"`
}

type ProposalNameResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type AddVoterResponse struct {
	Voter string `json:"voter"`
	Added bool   `json:"added"`
}

type WinnerResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type EventsResponse struct {
	Events []Event `json:"events"`
}

// Domain types

type Proposal struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	VoteCount uint32 `json:"vote_count"`
}

type Voter struct {
	ID                 string  `json:"id"`
	Weight             uint32  `json:"weight"`
	HasVoted           bool    `json:"has_voted"`
	DelegatedTo        *string `json:"delegated_to,omitempty"`
	VotedProposalIndex *int    `json:"voted_proposal_index,omitempty"`
}

type Ballot struct {
	ID          string     `json:"id"`
	Chairperson string     `json:"chairperson"`
	VoterCount  int        `json:"voter_count"`
	Proposals   []Proposal `json:"proposals"`
}

type Event struct {
	Seq       int       `json:"seq"`
	Op        string    `json:"op"`
	Caller    *string   `json:"caller,omitempty"`
	Target    *string   `json:"target,omitempty"`
	Proposal  *int      `json:"proposal,omitempty"`
	Weight    uint32    `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
