package catalog

import "alfredoptarigan/placement-copilot/internal/models"

var JobTypes = []string{"Full-time", "Part-time", "Contract", "Internship"}

var jobs = []models.JobPosting{
	{
		ID:          1,
		Title:       "Frontend Engineer",
		Company:     "Finlytic",
		Location:    "Remote",
		Type:        "Full-time",
		Description: "Build customer-facing dashboards in React and TypeScript. Own component libraries, accessibility and performance budgets. Experience with charting libraries and REST APIs required.",
		Salary:      "$110k - $140k",
		Logo:        "https://logo.clearbit.com/stripe.com",
	},
	{
		ID:          2,
		Title:       "Backend Engineer (Go)",
		Company:     "Cloudbridge",
		Location:    "Berlin, Germany",
		Type:        "Full-time",
		Description: "Design and operate Go services on Kubernetes. PostgreSQL, message queues, observability and on-call experience expected. Familiarity with gRPC is a plus.",
		Salary:      "€75k - €95k",
		Logo:        "https://logo.clearbit.com/cloudflare.com",
	},
	{
		ID:          3,
		Title:       "Data Analyst Intern",
		Company:     "Insightly Labs",
		Location:    "New York, NY",
		Type:        "Internship",
		Description: "Support the analytics team with SQL reporting, Python notebooks and dashboard maintenance. Coursework in statistics required.",
		Salary:      "$30/hr",
		Logo:        "https://logo.clearbit.com/tableau.com",
	},
	{
		ID:          4,
		Title:       "Product Designer",
		Company:     "Craftwork",
		Location:    "London, UK",
		Type:        "Contract",
		Description: "Lead UX research and prototyping for a B2B SaaS product. Figma expertise, design systems and usability testing experience required.",
		Salary:      "£450/day",
		Logo:        "https://logo.clearbit.com/figma.com",
	},
	{
		ID:          5,
		Title:       "Machine Learning Engineer",
		Company:     "Neuronet",
		Location:    "Remote",
		Type:        "Full-time",
		Description: "Train and deploy NLP models with PyTorch. Build evaluation pipelines, feature stores and model monitoring. Strong Python and MLOps background.",
		Salary:      "$150k - $190k",
		Logo:        "https://logo.clearbit.com/openai.com",
	},
	{
		ID:          6,
		Title:       "Growth Marketing Associate",
		Company:     "Brightloop",
		Location:    "Austin, TX",
		Type:        "Part-time",
		Description: "Run SEO and content experiments, manage campaign analytics and report on funnel metrics. Comfortable with Google Analytics and A/B testing.",
		Salary:      "$35k - $45k",
		Logo:        "https://logo.clearbit.com/hubspot.com",
	},
}

// Jobs returns a copy of the static job postings.
func Jobs() []models.JobPosting {
	out := make([]models.JobPosting, len(jobs))
	copy(out, jobs)
	return out
}

func JobByID(id int) (models.JobPosting, bool) {
	for _, job := range jobs {
		if job.ID == id {
			return job, true
		}
	}
	return models.JobPosting{}, false
}
