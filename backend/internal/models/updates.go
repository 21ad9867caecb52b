package models

import (
	"time"

	"github.com/google/uuid"
)

// JobPostingFilter фильтр списка вакансий, пустое поле не фильтрует
type JobPostingFilter struct {
	Status     JobStatus
	Department string
	Type       EmploymentType
}

// CandidateFilter фильтр списка кандидатов
type CandidateFilter struct {
	Status       CandidateStatus
	JobPostingID uuid.UUID
}

// InterviewFilter фильтр списка собеседований
type InterviewFilter struct {
	Status       InterviewStatus
	CandidateID  uuid.UUID
	JobPostingID uuid.UUID
}

// JobPostingUpdate частичное обновление вакансии, nil - без изменений
type JobPostingUpdate struct {
	PipelineID       *uuid.UUID      `json:"pipeline_id,omitempty"`
	Title            *string         `json:"title,omitempty" validate:"omitnil,min=1"`
	Department       *string         `json:"department,omitempty" validate:"omitnil,min=1"`
	Location         *string         `json:"location,omitempty" validate:"omitnil,min=1"`
	Type             *EmploymentType `json:"type,omitempty" validate:"omitempty,oneof=full-time part-time contract internship remote hybrid"`
	Salary           *SalaryRange    `json:"salary_range,omitempty"`
	Description      *string         `json:"description,omitempty" validate:"omitnil,min=1"`
	Requirements     []string        `json:"requirements,omitempty"`
	Responsibilities []string        `json:"responsibilities,omitempty"`
	Benefits         []string        `json:"benefits,omitempty"`
	Status           *JobStatus      `json:"status,omitempty" validate:"omitempty,oneof=draft active paused closed expired"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
}

// Apply применяет изменения к вакансии
func (u JobPostingUpdate) Apply(job *JobPosting) {
	if u.PipelineID != nil {
		job.PipelineID = u.PipelineID
	}
	if u.Title != nil {
		job.Title = *u.Title
	}
	if u.Department != nil {
		job.Department = *u.Department
	}
	if u.Location != nil {
		job.Location = *u.Location
	}
	if u.Type != nil {
		job.Type = *u.Type
	}
	if u.Salary != nil {
		job.Salary = *u.Salary
	}
	if u.Description != nil {
		job.Description = *u.Description
	}
	if u.Requirements != nil {
		job.Requirements = u.Requirements
	}
	if u.Responsibilities != nil {
		job.Responsibilities = u.Responsibilities
	}
	if u.Benefits != nil {
		job.Benefits = u.Benefits
	}
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.ExpiryDate != nil {
		job.ExpiryDate = u.ExpiryDate
	}
}

// CandidateUpdate частичное обновление кандидата.
// Статус здесь не меняется, только через движок воронки.
type CandidateUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Email           *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string  `json:"phone,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty" validate:"omitempty,min=0"`
	Education       *string  `json:"education,omitempty"`
	Location        *string  `json:"location,omitempty"`
	ResumeURL       *string  `json:"resume_url,omitempty"`
	CoverLetter     *string  `json:"cover_letter,omitempty"`
	PortfolioURL    *string  `json:"portfolio_url,omitempty"`
	LinkedinURL     *string  `json:"linkedin_url,omitempty"`
	Score           *float64 `json:"score,omitempty" validate:"omitempty,min=0,max=10"`
	Notes           *string  `json:"notes,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Apply применяет изменения к кандидату
func (u CandidateUpdate) Apply(c *Candidate) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.ExperienceYears != nil {
		c.ExperienceYears = *u.ExperienceYears
	}
	if u.Education != nil {
		c.Education = *u.Education
	}
	if u.Location != nil {
		c.Location = *u.Location
	}
	if u.ResumeURL != nil {
		c.ResumeURL = u.ResumeURL
	}
	if u.CoverLetter != nil {
		c.CoverLetter = u.CoverLetter
	}
	if u.PortfolioURL != nil {
		c.PortfolioURL = u.PortfolioURL
	}
	if u.LinkedinURL != nil {
		c.LinkedinURL = u.LinkedinURL
	}
	if u.Score != nil {
		c.Score = u.Score
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Tags != nil {
		c.Tags = u.Tags
	}
}

// InterviewUpdate частичное обновление собеседования
type InterviewUpdate struct {
	Type            *InterviewType   `json:"type,omitempty"`
	ScheduledAt     *time.Time       `json:"scheduled_at,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty" validate:"omitempty,min=1"`
	Interviewers    []string         `json:"interviewers,omitempty"`
	Location        *string          `json:"location,omitempty"`
	MeetingLink     *string          `json:"meeting_link,omitempty"`
	Status          *InterviewStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled rescheduled no-show"`
	Feedback        *string          `json:"feedback,omitempty"`
	Rating          *int             `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	TechnicalScore  *int             `json:"technical_score,omitempty"`
	CulturalScore   *int             `json:"cultural_score,omitempty"`
	OverallScore    *int             `json:"overall_score,omitempty"`
	NextSteps       *string          `json:"next_steps,omitempty"`
}

// Apply применяет изменения к собеседованию
func (u InterviewUpdate) Apply(i *Interview) {
	if u.Type != nil {
		i.Type = *u.Type
	}
	if u.ScheduledAt != nil {
		i.ScheduledAt = *u.ScheduledAt
	}
	if u.DurationMinutes != nil {
		i.DurationMinutes = *u.DurationMinutes
	}
	if u.Interviewers != nil {
		i.Interviewers = u.Interviewers
	}
	if u.Location != nil {
		i.Location = *u.Location
	}
	if u.MeetingLink != nil {
		i.MeetingLink = *u.MeetingLink
	}
	if u.Status != nil {
		i.Status = *u.Status
	}
	if u.Feedback != nil {
		i.Feedback = *u.Feedback
	}
	if u.Rating != nil {
		i.Rating = u.Rating
	}
	if u.TechnicalScore != nil {
		i.TechnicalScore = u.TechnicalScore
	}
	if u.CulturalScore != nil {
		i.CulturalScore = u.CulturalScore
	}
	if u.OverallScore != nil {
		i.OverallScore = u.OverallScore
	}
	if u.NextSteps != nil {
		i.NextSteps = *u.NextSteps
	}
}

// PipelineUpdate изменение воронки
type PipelineUpdate struct {
	Name      *string         `json:"name,omitempty"`
	Stages    []PipelineStage `json:"stages,omitempty"`
	IsDefault *bool           `json:"is_default,omitempty"`
}
