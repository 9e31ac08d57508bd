// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-ballot/auth"
	"github.com/danielhkuo/quickly-ballot/models"
	"github.com/danielhkuo/quickly-ballot/testutil"
)

// TestFullBallotWorkflow drives a ballot end to end through the handlers:
// 1. Issue principals
// 2. Create ballot
// 3. Add a proposal
// 4. Register and enfranchise voters
// 5. Delegate before the delegate votes
// 6. Vote
// 7. Delegate after the delegate voted
// 8. Read the winner
func TestFullBallotWorkflow(t *testing.T) {
	env := newTestEnv(t)
	principals := NewPrincipalHandler(env.cfg)

	// Step 1: Issue principals
	issue := func(name string) testutil.Principal {
		w := env.get(principals.Issue, testutil.MakeRequest("POST", "/principals", nil, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Issue principal for %s failed: %d - %s", name, w.Code, w.Body.String())
		}
		var resp models.IssuePrincipalResponse
		testutil.AssertJSON(t, w, &resp)
		id, err := auth.ParsePrincipalID(resp.PrincipalID)
		if err != nil {
			t.Fatalf("Step 1 - Bad principal id: %v", err)
		}
		return testutil.Principal{Token: resp.Token, ID: id}
	}
	chair, x, y, z := issue("chair"), issue("x"), issue("y"), issue("z")

	// Step 2: Create ballot
	req := testutil.MakeRequest("POST", "/ballots", models.CreateBallotRequest{Proposals: []string{"Pizza", "Sushi"}}, chair.Headers())
	w := env.call(env.ballots.CreateBallot, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create ballot failed: %d - %s", w.Code, w.Body.String())
	}
	var created models.CreateBallotResponse
	testutil.AssertJSON(t, w, &created)
	ballotID := created.BallotID
	t.Logf("Step 2 - Created ballot: %s", ballotID)

	// Step 3: Add a proposal
	req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/proposals", models.AddProposalRequest{Name: "Tacos"}, x.Headers())
	w = env.call(env.ballots.AddProposal, req, "id", ballotID)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - Add proposal failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 4: Register and enfranchise voters
	for _, p := range []testutil.Principal{x, y, z} {
		req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/voters", models.AddVoterRequest{Voter: p.ID.String()}, p.Headers())
		w = env.call(env.voting.AddVoter, req, "id", ballotID)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 4 - Add voter failed: %d - %s", w.Code, w.Body.String())
		}
		req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/voters/"+p.ID.String()+"/right", nil, chair.Headers())
		w = env.call(env.voting.GiveVotingRight, req, "id", ballotID, "voter", p.ID.String())
		if w.Code != http.StatusOK {
			t.Fatalf("Step 4 - Give voting right failed: %d - %s", w.Code, w.Body.String())
		}
	}

	// Step 5: X delegates to Y before Y votes
	req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/delegate", models.DelegateRequest{To: y.ID.String()}, x.Headers())
	w = env.call(env.voting.Delegate, req, "id", ballotID)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Delegate failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 6: Y votes for Sushi and carries X's weight
	req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/vote", models.VoteRequest{Proposal: intPtr(1)}, y.Headers())
	w = env.call(env.voting.Vote, req, "id", ballotID)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Vote failed: %d - %s", w.Code, w.Body.String())
	}

	// Chair votes Tacos
	req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/vote", models.VoteRequest{Proposal: intPtr(2)}, chair.Headers())
	w = env.call(env.voting.Vote, req, "id", ballotID)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Chair vote failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 7: Z delegates to the chairperson, who already voted
	req = testutil.MakeRequest("POST", "/ballots/"+ballotID+"/delegate", models.DelegateRequest{To: chair.ID.String()}, z.Headers())
	w = env.call(env.voting.Delegate, req, "id", ballotID)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Late delegate failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 8: Sushi and Tacos tie at 2, Sushi has the lower index
	req = testutil.MakeRequest("GET", "/ballots/"+ballotID, nil, nil)
	w = env.get(env.ballots.GetBallot, req, "id", ballotID)
	var summary models.Ballot
	testutil.AssertJSON(t, w, &summary)
	wantCounts := []uint32{0, 2, 2}
	for i, p := range summary.Proposals {
		if p.VoteCount != wantCounts[i] {
			t.Errorf("Step 8 - Expected %s to have %d votes, got %d", p.Name, wantCounts[i], p.VoteCount)
		}
	}
	if summary.VoterCount != 4 {
		t.Errorf("Step 8 - Expected 4 voters, got %d", summary.VoterCount)
	}

	w = getWinner(env, ballotID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var winner models.WinnerResponse
	testutil.AssertJSON(t, w, &winner)
	if winner.Name != "Sushi" {
		t.Errorf("Step 8 - Expected Sushi to win, got %+v", winner)
	}

	// Z is recorded as delegated, without a voted index
	req = testutil.MakeRequest("GET", "/ballots/"+ballotID+"/voters/"+z.ID.String(), nil, nil)
	w = env.get(env.voting.GetVoter, req, "id", ballotID, "voter", z.ID.String())
	var zv models.Voter
	testutil.AssertJSON(t, w, &zv)
	if !zv.HasVoted || zv.VotedProposalIndex != nil || zv.DelegatedTo == nil || *zv.DelegatedTo != chair.ID.String() {
		t.Errorf("Step 8 - Unexpected record for Z: %+v", zv)
	}
}
