// Package analysis tracks delegated career-analysis jobs through their
// pending -> completed | failed lifecycle. The external call happens inline
// within the submitting request; its timeout bound is acceptable request
// latency for this workload, and no retries are attempted — a failed job is
// terminal and callers submit a new one.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/crewai"
)

const (
	aiProviderName = "CrewAI"

	pendingAnalysisText  = "LinkedIn analysis in progress..."
	completedDefaultText = "LinkedIn profile analysis completed successfully."

	analysisTextMaxLen = 2000
)

// Score bounds for the derived profile score.
const (
	scoreFloor   = 20
	scoreCeiling = 100
	scoreNoItems = 50
	scorePerItem = 5
)

var fallbackSuggestions = []string{
	"Consider updating your profile summary to highlight key achievements",
	"Add more specific skills to your LinkedIn profile",
	"Connect with colleagues in your industry",
	"Share content related to your expertise",
	"Request recommendations from previous colleagues",
}

// Gateway is the outbound analysis-service surface.
type Gateway interface {
	AnalyzeProfile(ctx context.Context, req crewai.ProfileRequest) (*crewai.Result, error)
	CareerInspiration(ctx context.Context, req crewai.InspirationRequest) (*crewai.Result, error)
}

// ValidationError rejects a submission before any record is created. Details
// are human-readable, one per offending field.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Submission is the outcome of a submit call. A degraded outcome (gateway
// failure) is still a valid submission: the job exists in failed state and
// FallbackSuggestions give the caller something actionable.
type Submission struct {
	JobID               string
	Status              domain.AnalysisStatus
	Job                 *domain.AnalysisJob
	FailureReason       string
	FallbackSuggestions []string
}

// Service coordinates job records and the external analysis service.
type Service struct {
	jobs    domain.AnalysisRepository
	users   domain.UserRepository
	gateway Gateway
	logger  infra.Logger
	now     func() time.Time
}

func NewService(jobs domain.AnalysisRepository, users domain.UserRepository, gateway Gateway, logger infra.Logger) *Service {
	return &Service{jobs: jobs, users: users, gateway: gateway, logger: logger, now: time.Now}
}

// SubmitProfileAnalysis validates the caller's profile, creates a pending job,
// performs the analysis call inline and writes the terminal state exactly once.
func (s *Service) SubmitProfileAnalysis(ctx context.Context, userID, country string) (*Submission, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := validateProfileReference(user.LinkedinProfile); err != nil {
		return nil, err
	}

	job := &domain.AnalysisJob{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Kind:         domain.AnalysisKindLinkedIn,
		Status:       domain.AnalysisStatusPending,
		AnalysisText: pendingAnalysisText,
		AIProvider:   aiProviderName,
		Meta: domain.AnalysisMeta{
			ProfileURL:     user.LinkedinProfile,
			AnalysisDate:   s.now().UTC(),
			UserRole:       user.Role,
			UserDepartment: user.Department,
			UserCountry:    country,
		},
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("analysis: create job: %w", err)
	}

	result, err := s.gateway.AnalyzeProfile(ctx, crewai.ProfileRequest{
		UserID:          user.ID,
		LinkedinProfile: user.LinkedinProfile,
		CurrentUser:     userContext(user),
	})
	if err != nil {
		return s.failJob(ctx, job, err)
	}

	return s.completeJob(ctx, job, result, completedDefaultText)
}

// SubmitInspiration creates a peer-comparison job for the caller against the
// peer's profile.
func (s *Service) SubmitInspiration(ctx context.Context, userID, peerID, country string) (*Submission, error) {
	if err := validatePeer(userID, peerID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	peer, err := s.users.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}

	job := &domain.AnalysisJob{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		SourceUserID: peer.ID,
		Kind:         domain.AnalysisKindInspiration,
		Status:       domain.AnalysisStatusPending,
		AnalysisText: pendingAnalysisText,
		AIProvider:   aiProviderName,
		Meta: domain.AnalysisMeta{
			AnalysisDate:   s.now().UTC(),
			UserRole:       user.Role,
			UserDepartment: user.Department,
			UserCountry:    country,
		},
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("analysis: create job: %w", err)
	}

	result, err := s.gateway.CareerInspiration(ctx, crewai.InspirationRequest{
		CurrentUser:     userContext(user),
		InspirationUser: userContext(peer),
	})
	if err != nil {
		return s.failJob(ctx, job, err)
	}

	return s.completeJob(ctx, job, result, fmt.Sprintf("Career inspiration from %s", peer.Name))
}

// Get returns the job scoped to the submitting caller.
func (s *Service) Get(ctx context.Context, id, userID string) (*domain.AnalysisJob, error) {
	return s.jobs.GetForUser(ctx, id, userID)
}

func (s *Service) failJob(ctx context.Context, job *domain.AnalysisJob, cause error) (*Submission, error) {
	reason := truncateText(fmt.Sprintf("Analysis failed: %v", cause), analysisTextMaxLen)
	if err := s.jobs.MarkFailed(ctx, job.ID, reason); err != nil {
		return nil, fmt.Errorf("analysis: mark failed: %w", err)
	}
	s.logger.Warn().Err(cause).Str("job_id", job.ID).Msg("analysis: gateway call failed")
	return &Submission{
		JobID:               job.ID,
		Status:              domain.AnalysisStatusFailed,
		FailureReason:       reason,
		FallbackSuggestions: fallbackSuggestions,
	}, nil
}

func (s *Service) completeJob(ctx context.Context, job *domain.AnalysisJob, result *crewai.Result, defaultText string) (*Submission, error) {
	buckets := normalizeBuckets(result)
	total := buckets.TotalItems()

	text := strings.TrimSpace(string(result.AnalysisResult))
	if text == "" {
		text = defaultText
	}
	text = truncateText(text, analysisTextMaxLen)

	meta := job.Meta
	meta.ProfileScore = deriveScore(total)
	meta.TotalRecommendations = total
	meta.CompletedAt = result.CompletedAt
	if result.ProfileAnalyzed != "" {
		meta.ProfileURL = result.ProfileAnalyzed
	}

	if err := s.jobs.MarkCompleted(ctx, job.ID, buckets, text, meta); err != nil {
		return nil, fmt.Errorf("analysis: mark completed: %w", err)
	}

	job.Status = domain.AnalysisStatusCompleted
	job.Recommendations = buckets
	job.AnalysisText = text
	job.Meta = meta
	return &Submission{JobID: job.ID, Status: domain.AnalysisStatusCompleted, Job: job}, nil
}

func validateProfileReference(profileURL string) error {
	err := validation.Errors{
		"linkedin_profile": validation.Validate(profileURL,
			validation.Required.Error("no LinkedIn profile found, add your LinkedIn profile first"),
			is.URL,
		),
	}.Filter()
	if err == nil {
		return nil
	}
	return &ValidationError{Details: errorDetails(err)}
}

func validatePeer(userID, peerID string) error {
	err := validation.Errors{
		"peer_id": validation.Validate(peerID,
			validation.Required,
			validation.By(func(any) error {
				if peerID == userID {
					return fmt.Errorf("cannot request inspiration from yourself")
				}
				return nil
			}),
		),
	}.Filter()
	if err == nil {
		return nil
	}
	return &ValidationError{Details: errorDetails(err)}
}

func errorDetails(err error) []string {
	errs, ok := err.(validation.Errors)
	if !ok {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(errs))
	for field, fieldErr := range errs {
		details = append(details, fmt.Sprintf("%s: %v", field, fieldErr))
	}
	sort.Strings(details)
	return details
}

// normalizeBuckets maps a gateway result onto the fixed bucket shape. Missing
// buckets become empty sequences; the gateway client has already coerced
// scalars into single-element sequences.
func normalizeBuckets(result *crewai.Result) domain.RecommendationBuckets {
	return domain.RecommendationBuckets{
		ProfileOptimization: orEmpty(result.ProfileOptimization),
		Networking:          orEmpty(result.Networking),
		ContentStrategy:     orEmpty(result.ContentStrategy),
		SkillDevelopment:    orEmpty(result.SkillDevelopment),
		CareerRoadmap:       orEmpty(result.CareerRoadmap),
	}
}

// deriveScore maps recommendation volume to a bounded profile score: more
// findings mean more to fix. The formula is kept for compatibility with
// previously stored scores.
func deriveScore(totalItems int) int {
	if totalItems <= 0 {
		return scoreNoItems
	}
	score := scoreCeiling - totalItems*scorePerItem
	if score < scoreFloor {
		return scoreFloor
	}
	if score > scoreCeiling {
		return scoreCeiling
	}
	return score
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func userContext(u *domain.UserProfile) crewai.UserContext {
	return crewai.UserContext{
		ID:              u.ID,
		Name:            u.Name,
		Role:            u.Role,
		Department:      u.Department,
		Bio:             u.Bio,
		Skills:          u.Skills,
		ExperienceLevel: u.ExperienceLevel,
		LinkedinProfile: u.LinkedinProfile,
		TwitterProfile:  u.TwitterProfile,
	}
}

// FallbackSuggestions exposes the static degraded-mode suggestions.
func FallbackSuggestions() []string {
	out := make([]string, len(fallbackSuggestions))
	copy(out, fallbackSuggestions)
	return out
}
