package application

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/peerfact/peerfact/internal/domain/entity"
	repo "github.com/peerfact/peerfact/internal/domain/repository"
	"github.com/peerfact/peerfact/internal/engine"
	"github.com/peerfact/peerfact/pkg/helpers"
)

// ClaimService is the API-facing surface over the verdict engine: it creates
// claims through the classifier gateway and recomputes verdicts on every read.
type ClaimService struct {
	Claims        repo.ClaimRepository
	Verifications repo.VerificationRepository
	Users         repo.UserRepository
	Gateway       *engine.Gateway
	Params        engine.Params
	GCS           *storage.Client
	GCSBucket     string
	ES            *elasticsearch.Client
	ESClaimsIndex string
	Events        *helpers.RabbitPublisher
	Logger        *logrus.Logger
}

// ClaimWithVerdict pairs a claim with its freshly computed verdict.
type ClaimWithVerdict struct {
	Claim   *entity.Claim  `json:"claim"`
	Verdict engine.Verdict `json:"verdict"`
}

// ClaimDetail is the full read model for a single claim.
type ClaimDetail struct {
	Claim         *entity.Claim          `json:"claim"`
	Verifications []*entity.Verification `json:"verifications"`
	Verdict       engine.Verdict         `json:"verdict"`
}

// ClaimEvent is the message published to the claim-events queue for the
// search indexer worker.
type ClaimEvent struct {
	Type      string    `json:"type"`
	ClaimID   string    `json:"claim_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	Link      string    `json:"link,omitempty"`
	AILabel   string    `json:"ai_label"`
	AISummary string    `json:"ai_summary"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClaim validates the author, runs the classifier gateway exactly once,
// and stores the claim with its initial machine judgment. The AI fields are
// never rewritten afterwards.
func (s *ClaimService) CreateClaim(ctx context.Context, authorID, text, link string) (*entity.Claim, error) {
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !author.IsActive {
		return nil, ErrUserInactive
	}

	analysis := s.Gateway.Analyze(ctx, text, link)

	claim := &entity.Claim{
		AuthorID:     authorID,
		Text:         text,
		Link:         link,
		AILabel:      analysis.Label,
		AISummary:    analysis.Summary,
		AIConfidence: analysis.Confidence,
	}
	if err := s.Claims.Create(ctx, claim); err != nil {
		return nil, err
	}
	s.publishCreated(ctx, claim)
	return claim, nil
}

// publishCreated hands the claim to the indexer worker. Indexing is
// best-effort: a broken broker must not fail claim creation.
func (s *ClaimService) publishCreated(ctx context.Context, c *entity.Claim) {
	if s.Events == nil {
		return
	}
	ev := ClaimEvent{
		Type:      "claim.created",
		ClaimID:   c.ID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Link:      c.Link,
		AILabel:   string(c.AILabel),
		AISummary: c.AISummary,
		CreatedAt: c.CreatedAt,
	}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("claim_id", c.ID).Warn("publish claim event failed")
	}
}

// Analyze runs the classifier gateway without persisting anything.
func (s *ClaimService) Analyze(ctx context.Context, text, link string) engine.Analysis {
	return s.Gateway.Analyze(ctx, text, link)
}

// GetVerdict recomputes the verdict from the current ledger. Nothing is
// cached: the verdict is always a pure function of claim + verifications.
func (s *ClaimService) GetVerdict(ctx context.Context, claimID string) (engine.Verdict, error) {
	claim, err := s.Claims.GetByID(ctx, claimID)
	if err != nil {
		return engine.Verdict{}, err
	}
	verifs, err := s.Verifications.ListByClaim(ctx, claimID)
	if err != nil {
		return engine.Verdict{}, err
	}
	return s.Params.ComputeVerdict(claim, verifs), nil
}

func (s *ClaimService) GetClaimDetail(ctx context.Context, claimID string) (*ClaimDetail, error) {
	claim, err := s.Claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	verifs, err := s.Verifications.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return &ClaimDetail{
		Claim:         claim,
		Verifications: verifs,
		Verdict:       s.Params.ComputeVerdict(claim, verifs),
	}, nil
}

func (s *ClaimService) ListClaims(ctx context.Context, limit int) ([]ClaimWithVerdict, error) {
	claims, err := s.Claims.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ClaimWithVerdict, 0, len(claims))
	for _, c := range claims {
		verifs, err := s.Verifications.ListByClaim(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ClaimWithVerdict{Claim: c, Verdict: s.Params.ComputeVerdict(c, verifs)})
	}
	return out, nil
}

// AttachMedia uploads claim media to GCS and stores the object URL.
func (s *ClaimService) AttachMedia(ctx context.Context, claimID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrMediaStorageUnavailable
	}
	if _, err := s.Claims.GetByID(ctx, claimID); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("claims", claimID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Claims.SetMediaURL(ctx, claimID, url); err != nil {
		return "", err
	}
	return url, nil
}

// SearchClaims performs a multi_match query over claim text and AI summary.
func (s *ClaimService) SearchClaims(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESClaimsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"text^2", "ai_summary"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESClaimsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// IndexClaim writes a claim document into the search index. The API server
// publishes events instead; this is used by the indexer worker.
func IndexClaim(ctx context.Context, es *elasticsearch.Client, index string, ev ClaimEvent) error {
	doc := map[string]any{
		"claim_id":   ev.ClaimID,
		"author_id":  ev.AuthorID,
		"text":       ev.Text,
		"link":       ev.Link,
		"ai_label":   ev.AILabel,
		"ai_summary": ev.AISummary,
		"created_at": ev.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: index, DocumentID: ev.ClaimID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return errESIndex
	}
	return nil
}
