package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// JobPosting вакансия workspace
type JobPosting struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	WorkspaceID uuid.UUID      `json:"workspace_id" db:"workspace_id"`
	PipelineID  *uuid.UUID     `json:"pipeline_id,omitempty" db:"pipeline_id"`
	Title       string         `json:"title" db:"title"`
	Department  string         `json:"department" db:"department"`
	Location    string         `json:"location" db:"location"`
	Type        EmploymentType `json:"type" db:"type"`
	Salary      SalaryRange    `json:"salary_range" db:"salary_range"`
	Description string         `json:"description" db:"description"`
	Status      JobStatus      `json:"status" db:"status"`

	Requirements     pq.StringArray `json:"requirements" db:"requirements"`
	Responsibilities pq.StringArray `json:"responsibilities" db:"responsibilities"`
	Benefits         pq.StringArray `json:"benefits" db:"benefits"`

	// Счетчики только растут
	Applications int `json:"applications" db:"applications"`
	Views        int `json:"views" db:"views"`

	PostedDate time.Time  `json:"posted_date" db:"posted_date"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// SalaryRange вилка зарплаты, хранится в JSONB
type SalaryRange struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency"`
}

// IsZero пустая вилка
func (s SalaryRange) IsZero() bool {
	return s.Min.IsZero() && s.Max.IsZero() && s.Currency == ""
}

func (s SalaryRange) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *SalaryRange) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// Candidate кандидат на вакансию
type Candidate struct {
	ID           uuid.UUID `json:"id" db:"id"`
	WorkspaceID  uuid.UUID `json:"workspace_id" db:"workspace_id"`
	JobPostingID uuid.UUID `json:"job_posting_id" db:"job_posting_id"`

	Name            string `json:"name" db:"name"`
	Email           string `json:"email" db:"email"`
	Phone           string `json:"phone" db:"phone"`
	ExperienceYears int    `json:"experience_years" db:"experience_years"`
	Education       string `json:"education" db:"education"`
	Location        string `json:"location" db:"location"`

	// Вложения
	ResumeURL    *string `json:"resume_url,omitempty" db:"resume_url"`
	CoverLetter  *string `json:"cover_letter,omitempty" db:"cover_letter"`
	PortfolioURL *string `json:"portfolio_url,omitempty" db:"portfolio_url"`
	LinkedinURL  *string `json:"linkedin_url,omitempty" db:"linkedin_url"`

	Status CandidateStatus `json:"status" db:"status"`
	Score  *float64        `json:"score,omitempty" db:"score"` // 0-10
	Notes  string          `json:"notes" db:"notes"`
	Tags   pq.StringArray  `json:"tags" db:"tags"`

	AppliedDate time.Time  `json:"applied_date" db:"applied_date"`
	HiredAt     *time.Time `json:"hired_at,omitempty" db:"hired_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// HireTime момент найма. Для старых записей без hired_at берем updated_at.
func (c *Candidate) HireTime() time.Time {
	if c.HiredAt != nil {
		return *c.HiredAt
	}
	return c.UpdatedAt
}

// HiringPipeline воронка найма
type HiringPipeline struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	WorkspaceID uuid.UUID      `json:"workspace_id" db:"workspace_id"`
	Name        string         `json:"name" db:"name"`
	Stages      PipelineStages `json:"stages" db:"stages"`
	IsDefault   bool           `json:"is_default" db:"is_default"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// PipelineStage этап воронки
type PipelineStage struct {
	ID          CandidateStatus `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Order       int             `json:"order"`
	Color       string          `json:"color" validate:"omitempty,hexcolor"`
	Description string          `json:"description,omitempty"`
}

// PipelineStages список этапов, хранится в JSONB
type PipelineStages []PipelineStage

func (s PipelineStages) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *PipelineStages) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// Interview собеседование кандидата
type Interview struct {
	ID           uuid.UUID `json:"id" db:"id"`
	WorkspaceID  uuid.UUID `json:"workspace_id" db:"workspace_id"`
	CandidateID  uuid.UUID `json:"candidate_id" db:"candidate_id"`
	JobPostingID uuid.UUID `json:"job_posting_id" db:"job_posting_id"`

	Type            InterviewType  `json:"type" db:"type"`
	ScheduledAt     time.Time      `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"`
	Interviewers    pq.StringArray `json:"interviewers" db:"interviewers"`
	Location        string         `json:"location" db:"location"`
	MeetingLink     string         `json:"meeting_link" db:"meeting_link"`

	Status InterviewStatus `json:"status" db:"status"`

	// Оценка, без проверки согласованности
	Feedback       string `json:"feedback" db:"feedback"`
	Rating         *int   `json:"rating,omitempty" db:"rating"` // 1-5
	TechnicalScore *int   `json:"technical_score,omitempty" db:"technical_score"`
	CulturalScore  *int   `json:"cultural_score,omitempty" db:"cultural_score"`
	OverallScore   *int   `json:"overall_score,omitempty" db:"overall_score"`
	NextSteps      string `json:"next_steps" db:"next_steps"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StageChange запись истории перемещения кандидата по воронке
type StageChange struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	WorkspaceID uuid.UUID       `json:"workspace_id" db:"workspace_id"`
	CandidateID uuid.UUID       `json:"candidate_id" db:"candidate_id"`
	FromStatus  CandidateStatus `json:"from_status" db:"from_status"`
	ToStatus    CandidateStatus `json:"to_status" db:"to_status"`
	ChangedAt   time.Time       `json:"changed_at" db:"changed_at"`
}

// RecruitmentStats агрегированная статистика, не хранится
type RecruitmentStats struct {
	TotalJobs             int `json:"total_jobs"`
	ActiveJobs            int `json:"active_jobs"`
	TotalApplications     int `json:"total_applications"`
	ApplicationsThisMonth int `json:"applications_this_month"`
	InterviewsScheduled   int `json:"interviews_scheduled"`
	InterviewsCompleted   int `json:"interviews_completed"`
	OffersSent            int `json:"offers_sent"`
	HiresThisMonth        int `json:"hires_this_month"`

	// Проценты, округлены до целого
	ApplicationToInterviewRate int `json:"application_to_interview_rate"`
	InterviewToOfferRate       int `json:"interview_to_offer_rate"`
	OfferToHireRate            int `json:"offer_to_hire_rate"`

	AverageTimeToHire int `json:"average_time_to_hire"` // в днях
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
