// Package stats считает статистику найма по уже загруженным коллекциям.
package stats

import (
	"math"
	"time"

	"teamshub/backend/internal/models"
)

// Compute агрегирует вакансии, кандидатов и собеседования одного workspace.
// Конверсии считаются по текущим статусам, а не по когортам.
func Compute(jobs []models.JobPosting, candidates []models.Candidate, interviews []models.Interview, now time.Time) models.RecruitmentStats {
	monthStart := StartOfMonth(now)

	result := models.RecruitmentStats{
		TotalJobs:         len(jobs),
		TotalApplications: len(candidates),
	}

	for _, job := range jobs {
		if job.Status == models.JobStatusActive {
			result.ActiveJobs++
		}
	}

	var hired int
	var hireDays float64
	for i := range candidates {
		c := &candidates[i]

		if !c.AppliedDate.Before(monthStart) {
			result.ApplicationsThisMonth++
		}

		switch c.Status {
		case models.CandidateOffer:
			result.OffersSent++
		case models.CandidateHired:
			hired++
			hireTime := c.HireTime()
			if !hireTime.Before(monthStart) {
				result.HiresThisMonth++
			}
			hireDays += hireTime.Sub(c.AppliedDate).Hours() / 24
		}
	}

	for _, interview := range interviews {
		switch interview.Status {
		case models.InterviewScheduled:
			result.InterviewsScheduled++
		case models.InterviewCompleted:
			result.InterviewsCompleted++
		}
	}

	result.ApplicationToInterviewRate = percent(result.InterviewsCompleted, result.TotalApplications)
	result.InterviewToOfferRate = percent(result.OffersSent, result.InterviewsCompleted)
	result.OfferToHireRate = percent(hired, result.OffersSent)

	if hired > 0 {
		result.AverageTimeToHire = int(math.Round(hireDays / float64(hired)))
	}

	return result
}

// StartOfMonth первое число месяца в часовом поясе now
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
