package model

import "testing"

func TestRequestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestStatusPending, RequestStatusAccepted, true},
		{RequestStatusPending, RequestStatusRejected, true},
		{RequestStatusPending, RequestStatusCompleted, false},
		{RequestStatusAccepted, RequestStatusCompleted, true},
		{RequestStatusAccepted, RequestStatusPending, false},
		{RequestStatusAccepted, RequestStatusRejected, false},
		{RequestStatusCompleted, RequestStatusAccepted, false},
		{RequestStatusRejected, RequestStatusAccepted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	if RequestStatusPending.Terminal() || RequestStatusAccepted.Terminal() {
		t.Error("pending and accepted must not be terminal")
	}
	if !RequestStatusCompleted.Terminal() || !RequestStatusRejected.Terminal() {
		t.Error("completed and rejected must be terminal")
	}
}

func TestProposalStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ProposalStatus
		want     bool
	}{
		{ProposalStatusPending, ProposalStatusPaid, true},
		{ProposalStatusPending, ProposalStatusRejected, true},
		{ProposalStatusPending, ProposalStatusConfirmed, false},
		{ProposalStatusPaid, ProposalStatusConfirmed, true},
		{ProposalStatusPaid, ProposalStatusRejected, true},
		{ProposalStatusPaid, ProposalStatusPending, false},
		{ProposalStatusConfirmed, ProposalStatusRejected, false},
		{ProposalStatusRejected, ProposalStatusPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
