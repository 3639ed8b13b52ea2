package parser

import (
	"strings"

	"resume-parser/internal/models"
)

const (
	nameLine    = 0
	contactLine = 1
	linksLine   = 2
	summaryLine = 4
)

// extractPersonal reads the header block:
//
//	Jane Doe
//	Email: jane@x.com|Phone: 555-1234|Location: Austin, TX
//	LinkedIn: url|GitHub: url
//	<any line>
//	summary paragraph
func extractPersonal(lines LineSequence) models.PersonalInfo {
	names := strings.Fields(lines.Line(nameLine))
	contacts := strings.Split(lines.Line(contactLine), "|")
	sites := strings.Split(lines.Line(linksLine), "|")
	location := strings.Split(removeLabel(part(contacts, 2), "Location: "), ", ")

	return models.PersonalInfo{
		FirstName: part(names, 0),
		LastName:  part(names, 1),
		Email:     removeLabel(part(contacts, 0), "Email: "),
		Phone:     removeLabel(part(contacts, 1), "Phone: "),
		City:      strings.TrimSpace(part(location, 0)),
		State:     strings.TrimSpace(part(location, 1)),
		LinkedIn:  removeLabel(part(sites, 0), "LinkedIn: "),
		GitHub:    removeLabel(part(sites, 1), "GitHub: "),
		Summary:   lines.Line(summaryLine),
	}
}

// removeLabel drops the first occurrence of label and trims the rest.
func removeLabel(s, label string) string {
	return strings.TrimSpace(strings.Replace(s, label, "", 1))
}
