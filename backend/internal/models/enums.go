package models

// EmploymentType тип занятости
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentRemote     EmploymentType = "remote"
	EmploymentHybrid     EmploymentType = "hybrid"
)

// JobStatus статус вакансии. Переходы между статусами не ограничены.
type JobStatus string

const (
	JobStatusDraft   JobStatus = "draft"
	JobStatusActive  JobStatus = "active"
	JobStatusPaused  JobStatus = "paused"
	JobStatusClosed  JobStatus = "closed"
	JobStatusExpired JobStatus = "expired"
)

// JobStatuses все статусы вакансии
var JobStatuses = []JobStatus{
	JobStatusDraft,
	JobStatusActive,
	JobStatusPaused,
	JobStatusClosed,
	JobStatusExpired,
}

// CandidateStatus этап воронки, на котором находится кандидат
type CandidateStatus string

const (
	CandidateApplied   CandidateStatus = "applied"
	CandidateScreening CandidateStatus = "screening"
	CandidateInterview CandidateStatus = "interview"
	CandidateOffer     CandidateStatus = "offer"
	CandidateHired     CandidateStatus = "hired"
	CandidateRejected  CandidateStatus = "rejected"
	CandidateWithdrawn CandidateStatus = "withdrawn"
)

// CandidateStatuses закрытый список идентификаторов этапов
var CandidateStatuses = []CandidateStatus{
	CandidateApplied,
	CandidateScreening,
	CandidateInterview,
	CandidateOffer,
	CandidateHired,
	CandidateRejected,
	CandidateWithdrawn,
}

// IsValid проверяет, что статус входит в закрытый список
func (s CandidateStatus) IsValid() bool {
	for _, status := range CandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal конечный этап, дальше по воронке не двигаем
func (s CandidateStatus) IsTerminal() bool {
	switch s {
	case CandidateHired, CandidateRejected, CandidateWithdrawn:
		return true
	default:
		return false
	}
}

func (s CandidateStatus) String() string {
	return string(s)
}

// InterviewStatus статус собеседования
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewCompleted   InterviewStatus = "completed"
	InterviewCancelled   InterviewStatus = "cancelled"
	InterviewRescheduled InterviewStatus = "rescheduled"
	InterviewNoShow      InterviewStatus = "no-show"
)

// InterviewType формат собеседования
type InterviewType string

const (
	InterviewPhone     InterviewType = "phone"
	InterviewVideo     InterviewType = "video"
	InterviewOnsite    InterviewType = "onsite"
	InterviewTechnical InterviewType = "technical"
	InterviewPanel     InterviewType = "panel"
)
