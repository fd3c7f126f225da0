package sos

import "fmt"

// Status is the lifecycle state of an SOS request.
type Status string

const (
	StatusPending         Status = "pending"
	StatusDeclinedByDonor Status = "declined_by_donor"
	StatusDonorEnRoute    Status = "donor_en_route"
	StatusPickupRequested Status = "hospital_pickup_requested"
	StatusFulfilled       Status = "fulfilled"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDeclinedByDonor, StatusDonorEnRoute, StatusPickupRequested, StatusFulfilled:
		return true
	}
	return false
}

// Action is a lifecycle transition trigger.
type Action string

const (
	ActionDecline       Action = "decline"
	ActionRespondSelf   Action = "respond_self"
	ActionRespondPickup Action = "respond_pickup"
	ActionFulfill       Action = "fulfill"
)

// transitions is the full lifecycle table. A donor response (decline,
// self-delivery or pickup) is legal from every state except fulfilled; a
// later response overwrites an earlier one (last responder wins). Fulfill is
// legal from every state and idempotent on an already-fulfilled request.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionDecline:       StatusDeclinedByDonor,
		ActionRespondSelf:   StatusDonorEnRoute,
		ActionRespondPickup: StatusPickupRequested,
		ActionFulfill:       StatusFulfilled,
	},
	StatusDeclinedByDonor: {
		ActionDecline:       StatusDeclinedByDonor,
		ActionRespondSelf:   StatusDonorEnRoute,
		ActionRespondPickup: StatusPickupRequested,
		ActionFulfill:       StatusFulfilled,
	},
	StatusDonorEnRoute: {
		ActionDecline:       StatusDeclinedByDonor,
		ActionRespondSelf:   StatusDonorEnRoute,
		ActionRespondPickup: StatusPickupRequested,
		ActionFulfill:       StatusFulfilled,
	},
	StatusPickupRequested: {
		ActionDecline:       StatusDeclinedByDonor,
		ActionRespondSelf:   StatusDonorEnRoute,
		ActionRespondPickup: StatusPickupRequested,
		ActionFulfill:       StatusFulfilled,
	},
	StatusFulfilled: {
		ActionFulfill: StatusFulfilled,
	},
}

// TransitionError reports an action that is not in the lifecycle table for
// the request's current state.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed from status %q", e.Action, e.From)
}

// Transition resolves the target state for applying action a in state from.
// Actions absent from the table are rejected and cause no state change.
func Transition(from Status, a Action) (Status, error) {
	next, ok := transitions[from][a]
	if !ok {
		return from, &TransitionError{From: from, Action: a}
	}
	return next, nil
}
