package lifecycle

import "contract-registry/types"

// humanTransitions lists the moves the CRUD surface may make on behalf
// of a user. Everything else (expiry, notice window, renewal) belongs
// to the engine, and terminal states have no outgoing edges at all.
var humanTransitions = map[int][]int{
	types.StatusDraft:           {types.StatusInReview, types.StatusCancelled},
	types.StatusInReview:        {types.StatusSent, types.StatusCancelled},
	types.StatusSent:            {types.StatusActive, types.StatusCancelled},
	types.StatusActive:          {types.StatusSuspended, types.StatusCancelled},
	types.StatusSuspended:       {types.StatusActive, types.StatusCancelled},
	types.StatusExpiring:        {types.StatusRenewalProposed, types.StatusCancelled},
	types.StatusRenewalProposed: {types.StatusCancelled},
}

// Allowed reports whether a user-driven transition is legal.
func Allowed(from, to int) bool {
	for _, t := range humanTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
