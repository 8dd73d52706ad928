package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerfact/peerfact/internal/domain/entity"
	repo "github.com/peerfact/peerfact/internal/domain/repository"
	"github.com/peerfact/peerfact/internal/engine"
)

type fakeUsers struct {
	users     map[string]*entity.User
	conflicts int // CAS failures to inject before succeeding
	casCalls  int
}

func (f *fakeUsers) Create(ctx context.Context, u *entity.User) error { f.users[u.ID] = u; return nil }

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByDisplayName(ctx context.Context, name string) (*entity.User, error) {
	for _, u := range f.users {
		if u.DisplayName == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) UpdateReputation(ctx context.Context, id string, newValue, expected float64) error {
	f.casCalls++
	if f.conflicts > 0 {
		f.conflicts--
		// Simulate a racing writer bumping the value out from under us.
		f.users[id].Reputation = expected + 0.02
		return repo.ErrConflict
	}
	if f.users[id].Reputation != expected {
		return repo.ErrConflict
	}
	f.users[id].Reputation = newValue
	return nil
}

func (f *fakeUsers) Deactivate(ctx context.Context, id string) error {
	f.users[id].IsActive = false
	return nil
}

type fakeClaims struct {
	claims map[string]*entity.Claim
}

func (f *fakeClaims) Create(ctx context.Context, c *entity.Claim) error {
	f.claims[c.ID] = c
	return nil
}

func (f *fakeClaims) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	c, ok := f.claims[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeClaims) ListRecent(ctx context.Context, limit int) ([]*entity.Claim, error) {
	var out []*entity.Claim
	for _, c := range f.claims {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClaims) SetMediaURL(ctx context.Context, id, mediaURL string) error {
	c, ok := f.claims[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.MediaURL = mediaURL
	return nil
}

type fakeVerifications struct {
	byClaim map[string][]*entity.Verification
}

func (f *fakeVerifications) Append(ctx context.Context, v *entity.Verification) error {
	f.byClaim[v.ClaimID] = append(f.byClaim[v.ClaimID], v)
	return nil
}

func (f *fakeVerifications) ListByClaim(ctx context.Context, claimID string) ([]*entity.Verification, error) {
	return f.byClaim[claimID], nil
}

func newFixture(conflicts int) (*VerificationService, *fakeUsers, *fakeClaims, *fakeVerifications) {
	users := &fakeUsers{users: map[string]*entity.User{
		"alice": {ID: "alice", DisplayName: "alice", Reputation: 1.0, IsActive: true},
	}, conflicts: conflicts}
	claims := &fakeClaims{claims: map[string]*entity.Claim{
		"c1": {ID: "c1", AuthorID: "alice", Text: "the bridge reopened", AILabel: entity.LabelUnclear, AIConfidence: 0.5},
	}}
	verifs := &fakeVerifications{byClaim: map[string][]*entity.Verification{}}
	svc := &VerificationService{
		Claims:        claims,
		Verifications: verifs,
		Users:         users,
		Params:        engine.DefaultParams(),
	}
	return svc, users, claims, verifs
}

func supportLedger(claimID string, n int) []*entity.Verification {
	out := make([]*entity.Verification, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &entity.Verification{ClaimID: claimID, Stance: entity.StanceSupport, WeightAtSubmission: 1.0})
	}
	return out
}

func TestAddVerificationFirstVoteKeepsReputation(t *testing.T) {
	svc, users, _, _ := newFixture(0)

	v, err := svc.AddVerification(context.Background(), "c1", "alice", entity.StanceRefute, "", "")
	require.NoError(t, err)

	assert.Equal(t, 1.0, users.users["alice"].Reputation)
	assert.Equal(t, 1.0, v.WeightAtSubmission)
	assert.Zero(t, users.casCalls, "no consensus means no write at all")
}

func TestAddVerificationAgreementRaisesReputation(t *testing.T) {
	svc, users, _, verifs := newFixture(0)
	verifs.byClaim["c1"] = supportLedger("c1", 3)

	v, err := svc.AddVerification(context.Background(), "c1", "alice", entity.StanceSupport, "https://reuters.com/x", "matches the wire report")
	require.NoError(t, err)

	assert.InDelta(t, 1.02, users.users["alice"].Reputation, 1e-12)
	// The frozen weight is the pre-adjustment reputation: a vote never
	// carries the reward it just triggered.
	assert.Equal(t, 1.0, v.WeightAtSubmission)
}

func TestAddVerificationDisagreementLowersReputation(t *testing.T) {
	svc, users, _, verifs := newFixture(0)
	verifs.byClaim["c1"] = supportLedger("c1", 3)

	_, err := svc.AddVerification(context.Background(), "c1", "alice", entity.StanceRefute, "", "")
	require.NoError(t, err)
	assert.InDelta(t, 0.99, users.users["alice"].Reputation, 1e-12)
}

func TestAddVerificationRetriesOnCASConflict(t *testing.T) {
	svc, users, _, verifs := newFixture(2)
	verifs.byClaim["c1"] = supportLedger("c1", 3)

	v, err := svc.AddVerification(context.Background(), "c1", "alice", entity.StanceSupport, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, users.casCalls)
	// Two injected conflicts each bumped reputation by 0.02 before the
	// successful third attempt read 1.04 and wrote 1.06.
	assert.InDelta(t, 1.06, users.users["alice"].Reputation, 1e-12)
	assert.InDelta(t, 1.04, v.WeightAtSubmission, 1e-12)
}

func TestAddVerificationGivesUpAfterBoundedRetries(t *testing.T) {
	svc, _, _, verifs := newFixture(10)
	verifs.byClaim["c1"] = supportLedger("c1", 3)

	_, err := svc.AddVerification(context.Background(), "c1", "alice", entity.StanceSupport, "", "")
	assert.ErrorIs(t, err, ErrReputationContention)
	assert.Empty(t, verifs.byClaim["c1"][3:], "no verification may be appended after a failed adjustment")
}

func TestAddVerificationUnknownClaim(t *testing.T) {
	svc, _, _, _ := newFixture(0)
	_, err := svc.AddVerification(context.Background(), "missing", "alice", entity.StanceSupport, "", "")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAddVerificationInactiveAuthor(t *testing.T) {
	svc, users, _, _ := newFixture(0)
	users.users["alice"].IsActive = false
	_, err := svc.AddVerification(context.Background(), "c1", "alice", entity.StanceSupport, "", "")
	assert.ErrorIs(t, err, ErrUserInactive)
}
