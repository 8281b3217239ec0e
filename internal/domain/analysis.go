package domain

import "time"

// AnalysisKind enumerates supported analysis job categories.
type AnalysisKind string

const (
	AnalysisKindLinkedIn    AnalysisKind = "linkedin_analysis"
	AnalysisKindInspiration AnalysisKind = "career_inspiration"
	AnalysisKindSkillDev    AnalysisKind = "skill_development"
)

// AnalysisStatus enumerates job lifecycle states. Completed and failed are
// terminal; a job never re-enters pending.
type AnalysisStatus string

const (
	AnalysisStatusPending   AnalysisStatus = "pending"
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// Terminal reports whether no further status transition is permitted.
func (s AnalysisStatus) Terminal() bool {
	return s == AnalysisStatusCompleted || s == AnalysisStatusFailed
}

// RecommendationBuckets is the fixed output shape every analysis result is
// normalized into. Each bucket is a sequence of text items; absent buckets are
// empty slices, never nil maps of unknown shape.
type RecommendationBuckets struct {
	ProfileOptimization []string `json:"profile_optimization"`
	Networking          []string `json:"networking"`
	ContentStrategy     []string `json:"content_strategy"`
	SkillDevelopment    []string `json:"skill_development"`
	CareerRoadmap       []string `json:"career_roadmap"`
}

// TotalItems counts non-empty recommendation items across all buckets.
func (r RecommendationBuckets) TotalItems() int {
	n := 0
	for _, bucket := range [][]string{
		r.ProfileOptimization,
		r.Networking,
		r.ContentStrategy,
		r.SkillDevelopment,
		r.CareerRoadmap,
	} {
		for _, item := range bucket {
			if item != "" {
				n++
			}
		}
	}
	return n
}

// AnalysisMeta carries job provenance.
type AnalysisMeta struct {
	ProfileURL           string    `json:"profile_url,omitempty"`
	AnalysisDate         time.Time `json:"analysis_date"`
	UserRole             string    `json:"user_role,omitempty"`
	UserDepartment       string    `json:"user_department,omitempty"`
	UserCountry          string    `json:"user_country,omitempty"`
	ProfileScore         int       `json:"profile_score,omitempty"`
	TotalRecommendations int       `json:"total_recommendations,omitempty"`
	CompletedAt          string    `json:"completed_at,omitempty"`
}

// AnalysisJob tracks a single delegated analysis call through
// pending -> completed | failed. The request handler that created the job is
// the sole writer of its terminal transition.
type AnalysisJob struct {
	ID              string
	UserID          string
	SourceUserID    string
	Kind            AnalysisKind
	Status          AnalysisStatus
	Recommendations RecommendationBuckets
	AnalysisText    string
	AIProvider      string
	Meta            AnalysisMeta
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserProfile is the slice of the user record the analysis tracker needs for
// validation and prompt context. Full profile CRUD lives outside this core.
type UserProfile struct {
	ID              string
	Name            string
	Role            string
	Department      string
	Bio             string
	ExperienceLevel string
	LinkedinProfile string
	TwitterProfile  string
	Skills          []string
}
