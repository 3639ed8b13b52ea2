package parser

import (
	"strings"

	"resume-parser/internal/models"
)

// joinToken glues a section's lines together before splitting on the divider.
const joinToken = "|||"

// Page break artifacts look like "----------------Page (0) Break----------------".
const (
	pageBreakOpen  = "Page ("
	pageBreakClose = ") Break"
)

func (p *Parser) extractSkills(lines LineSequence) []models.SkillEntry {
	start, end := lines.IndexOf(SkillsMarker), lines.IndexOf(ExperienceMarker)
	if p.strict && (start < 0 || end < 0) {
		return nil
	}

	// end-1 skips the separator line above the experience heading
	section := lines.Slice(start+1, end-1)

	var skills []models.SkillEntry
	for _, line := range section {
		skills = append(skills, models.SkillEntry{
			Label: line,
			Value: SnakeCase(line),
		})
	}
	return skills
}

func (p *Parser) extractJobs(lines LineSequence) []models.JobEntry {
	start, end := lines.IndexOf(ExperienceMarker), lines.IndexOf(EducationMarker)
	if p.strict && (start < 0 || end < 0) {
		return nil
	}

	var jobs []models.JobEntry
	for _, entry := range p.entries(lines.Slice(start+1, end)) {
		if len(entry) == 0 {
			continue
		}

		company, location := splitPair(part(entry, 1))
		startDate, endDate := splitPair(part(entry, 2))

		var description string
		if len(entry) > 3 {
			description = strings.Join(entry[3:], " ")
		}

		jobs = append(jobs, models.JobEntry{
			Title:       entry[0],
			Company:     company,
			Location:    location,
			Start:       startDate,
			End:         endDate,
			Description: description,
		})
	}
	return jobs
}

func (p *Parser) extractEducation(lines LineSequence) []models.EducationEntry {
	start := lines.IndexOf(EducationMarker)
	if p.strict && start < 0 {
		return nil
	}

	var section []string
	for _, line := range lines.Slice(start+1, len(lines)) {
		if strings.Contains(line, pageBreakOpen) && strings.Contains(line, pageBreakClose) {
			continue
		}
		section = append(section, line)
	}

	var education []models.EducationEntry
	for _, entry := range p.entries(section) {
		// degree line and "School - Year" line, nothing else
		if len(entry) != 2 {
			continue
		}

		school, gradYear := splitPair(entry[1])
		education = append(education, models.EducationEntry{
			Degree:   entry[0],
			School:   school,
			GradYear: gradYear,
		})
	}
	return education
}

// entries splits a section into records on the divider. Blank pieces are dropped, so a
// record may come back empty.
func (p *Parser) entries(section []string) [][]string {
	joined := strings.Join(section, joinToken)
	chunks := strings.Split(joined, p.divider)

	out := make([][]string, 0, len(chunks))
	for _, chunk := range chunks {
		var entry []string
		for _, piece := range strings.Split(chunk, joinToken) {
			if strings.TrimSpace(piece) != "" {
				entry = append(entry, piece)
			}
		}
		out = append(out, entry)
	}
	return out
}

// splitPair splits "left - right" and trims both halves.
func splitPair(s string) (string, string) {
	parts := strings.Split(s, " - ")
	return strings.TrimSpace(part(parts, 0)), strings.TrimSpace(part(parts, 1))
}
