package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/peerfact/peerfact/internal/domain/entity"
	repo "github.com/peerfact/peerfact/internal/domain/repository"
	"github.com/peerfact/peerfact/internal/engine"
)

var (
	ErrMediaStorageUnavailable = errors.New("media storage not configured")
	// ErrReputationContention is returned when the reputation compare-and-swap
	// keeps losing races; callers may retry the whole submission.
	ErrReputationContention = errors.New("reputation update contention")

	errESIndex = errors.New("elasticsearch index request failed")
)

// reputationRetries bounds the compare-and-swap loop on concurrent
// verification submissions by the same author.
const reputationRetries = 3

// VerificationService appends evidence and feeds the reputation loop.
type VerificationService struct {
	Claims        repo.ClaimRepository
	Verifications repo.VerificationRepository
	Users         repo.UserRepository
	Params        engine.Params
	Logger        *logrus.Logger
}

// AddVerification scores the new vote against the consensus that existed
// before it, adjusts the author's reputation under compare-and-swap, then
// appends the verification with the author's pre-adjustment reputation frozen
// as its weight. Verdict reads never block on this update; they only see
// committed weights.
func (s *VerificationService) AddVerification(ctx context.Context, claimID, authorID string, stance entity.Stance, sourceURL, explanation string) (*entity.Verification, error) {
	if _, err := s.Claims.GetByID(ctx, claimID); err != nil {
		return nil, err
	}
	prior, err := s.Verifications.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	var weight float64
	adjusted := false
	for attempt := 0; attempt < reputationRetries; attempt++ {
		author, err := s.Users.GetByID(ctx, authorID)
		if err != nil {
			return nil, err
		}
		if !author.IsActive {
			return nil, ErrUserInactive
		}

		weight = author.Reputation
		updated := s.Params.AdjustedReputation(prior, stance, author.Reputation)
		if updated == author.Reputation {
			adjusted = true
			break
		}

		err = s.Users.UpdateReputation(ctx, authorID, updated, author.Reputation)
		if err == nil {
			adjusted = true
			break
		}
		if !errors.Is(err, repo.ErrConflict) {
			return nil, err
		}
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": authorID, "attempt": attempt + 1}).
				Debug("reputation cas conflict, retrying")
		}
	}
	if !adjusted {
		return nil, fmt.Errorf("%w: user %s", ErrReputationContention, authorID)
	}

	v := &entity.Verification{
		ClaimID:            claimID,
		AuthorID:           authorID,
		Stance:             stance,
		SourceURL:          sourceURL,
		Explanation:        explanation,
		WeightAtSubmission: weight,
	}
	if err := s.Verifications.Append(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
