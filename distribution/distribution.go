// Package distribution pairs two equal-size groups so that every participant
// gets exactly one recipient and exactly one giver.
package distribution

import (
	"fmt"
	"secret-santa/domain"
	"secret-santa/errors"
	"slices"

	"github.com/samber/lo"
)

// Distribute assigns recipients across groupA and groupB.
//
// The first pass lets groupA give to groupB, the second lets groupB, taken in
// reverse order, give to groupA. For disjoint groups of the same size this
// always closes a complete, self-avoiding pairing. The result is deterministic
// for a given input order.
//
// Inputs are never mutated. The returned slice holds groupA followed by the
// reversed groupB, with every assignment applied. Any precondition failure
// returns a nil slice.
func Distribute(groupA, groupB []domain.Participant) ([]domain.Participant, error) {
	if err := checkGroups(groupA, groupB); err != nil {
		return nil, err
	}

	first := cloneAll(groupA)
	second := cloneAll(groupB)

	assign(first, second)
	slices.Reverse(second)
	assign(second, first)

	result := append(first, second...)
	if err := checkComplete(result); err != nil {
		return nil, err
	}
	return result, nil
}

// assign gives every giver without a recipient the first recipient without a
// giver. Newly reached recipients become Distributed.
func assign(givers, recipients []domain.Participant) {
	for i := range givers {
		for j := range recipients {
			giver, recipient := &givers[i], &recipients[j]
			if giver.Recipient != nil || recipient.Giver != nil || giver.ID == recipient.ID {
				continue
			}
			giver.AssignRecipient(recipient)
			recipient.State = domain.StateDistributed
		}
	}
}

func checkGroups(groupA, groupB []domain.Participant) error {
	if len(groupA) != len(groupB) {
		return fmt.Errorf("%w: %d vs %d", errors.ErrUnequalGroups, len(groupA), len(groupB))
	}
	if len(groupA) == 0 {
		return errors.ErrEmptyGroups
	}
	seen := make(map[domain.ParticipantID]struct{}, len(groupA)+len(groupB))
	for _, p := range append(slices.Clone(groupA), groupB...) {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %d appears twice", errors.ErrSelfPairing, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func checkComplete(participants []domain.Participant) error {
	byID := lo.KeyBy(participants, func(p domain.Participant) domain.ParticipantID { return p.ID })
	for _, p := range participants {
		if !p.IsPaired() {
			return fmt.Errorf("%w: %d", errors.ErrIncompleteDistribution, p.ID)
		}
		if err := p.CheckPairing(); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrSelfPairing, err)
		}
		// Pairs made before this run may point outside the groups.
		if child, ok := byID[*p.Recipient]; ok && (child.Giver == nil || *child.Giver != p.ID) {
			return fmt.Errorf("%w: %d -> %d is not mutual", errors.ErrIncompleteDistribution, p.ID, child.ID)
		}
	}
	return nil
}

func cloneAll(ps []domain.Participant) []domain.Participant {
	return lo.Map(ps, func(p domain.Participant, _ int) domain.Participant { return p.Clone() })
}
