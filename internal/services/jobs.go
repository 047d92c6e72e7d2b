package services

import (
	"strings"

	"alfredoptarigan/placement-copilot/internal/models"
)

// FilterJobs returns the postings that satisfy every non-empty field of
// filter, keeping catalog order. Matching ignores case.
func FilterJobs(jobs []models.JobPosting, filter models.JobFilter) []models.JobPosting {
	keyword := normalizeQuery(filter.Keyword)
	location := normalizeQuery(filter.Location)
	company := normalizeQuery(filter.Company)
	jobType := normalizeQuery(filter.Type)

	out := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if keyword != "" &&
			!containsFold(job.Title, keyword) &&
			!containsFold(job.Company, keyword) &&
			!containsFold(job.Description, keyword) {
			continue
		}
		if location != "" && !containsFold(job.Location, location) {
			continue
		}
		if company != "" && !containsFold(job.Company, company) {
			continue
		}
		if jobType != "" && jobType != "all" && strings.ToLower(job.Type) != jobType {
			continue
		}
		out = append(out, job)
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// containsFold reports whether s contains the already lower-cased sub.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
