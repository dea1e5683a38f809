package parser

// BuildCandidatePrompt returns the extraction prompt for resume text. The
// prompt is deterministic so identical resumes produce identical requests.
func BuildCandidatePrompt(resumeText string) string {
	return `You are a resume data extraction assistant. Analyze the resume text below and extract ALL data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Extract every experience, education, skill, certification, language, and project entry. Do not skip, summarize, or omit any.
- "duration_months" must be an integer number of months for the role, or null if the dates are not stated.
- Dates should be kept as written on the resume.
- Do not place skill names, job titles, or technology names in the "name" field; it holds the person's name only.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.

The JSON object must follow this schema:
{
  "name": "",
  "email": "",
  "phone": "",
  "linkedin_url": "",
  "other_urls": [],
  "location": "",
  "summary": "",
  "experience": [
    {
      "company": "",
      "title": "",
      "start_date": "",
      "end_date": "",
      "is_current": false,
      "duration_months": null,
      "responsibilities": []
    }
  ],
  "education": [
    {
      "institution": "",
      "degree": "",
      "field": "",
      "start_date": "",
      "end_date": "",
      "grade": ""
    }
  ],
  "skills": [
    {"name": "", "category": "", "proficiency": ""}
  ],
  "certifications": [],
  "languages": [],
  "projects": [
    {"name": "", "description": "", "url": "", "technologies": []}
  ]
}

If a field is not present in the resume, use empty string for text, null for duration_months, and [] for lists.

RESUME TEXT:
` + resumeText
}
