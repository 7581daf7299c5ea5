package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
)

// DefaultRoundCount is used when a status update requests no round count.
const DefaultRoundCount = 2

// RoundTypeFor names round i of n. The last round is the HR round, except for
// a single-round interview, which stays technical.
func RoundTypeFor(i, n int) string {
	if i == n && n > 1 {
		return "HR Round"
	}
	return fmt.Sprintf("Technical Round %d", i)
}

// newRounds builds rounds numbered from+1..target for an interview.
func newRounds(interviewID string, from, target int) []models.InterviewRound {
	rounds := make([]models.InterviewRound, 0, target-from)
	for i := from + 1; i <= target; i++ {
		rounds = append(rounds, models.InterviewRound{
			ID:          uuid.NewString(),
			InterviewID: interviewID,
			RoundNumber: i,
			RoundType:   RoundTypeFor(i, target),
			Status:      models.RoundStatusScheduled,
		})
	}
	return rounds
}

// resizeRounds makes the interview's round list exactly match target. Rounds
// with numbers <= target are kept, so their feedback survives; rounds above
// target are dropped together with their feedback. On a structural change the
// kept rounds are re-typed against the new total, so the HR round is always
// the last one (a 3->2 shrink turns "Technical Round 2" into "HR Round").
// The caller is responsible for running this inside a transaction.
func resizeRounds(ctx context.Context, rounds pgrepo.RoundRepository, iv *models.Interview, target int) error {
	current := len(iv.Rounds)
	if target == current {
		return nil
	}

	if target > current {
		if err := rounds.CreateBatch(ctx, newRounds(iv.ID, current, target)); err != nil {
			return err
		}
	} else {
		if err := rounds.DeleteAbove(ctx, iv.ID, target); err != nil {
			return err
		}
	}

	kept := current
	if target < kept {
		kept = target
	}
	for i := 1; i <= kept; i++ {
		want := RoundTypeFor(i, target)
		if iv.Rounds[i-1].RoundType == want {
			continue
		}
		if err := rounds.SetType(ctx, iv.ID, i, want); err != nil {
			return err
		}
	}
	return nil
}
