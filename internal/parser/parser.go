// Package parser turns the raw text of a TYFYC template resume into a ParsedResume.
//
// The text is split into a LineSequence once and four extractors read it
// independently: personal info by fixed line position, skills, jobs and education by
// the section marker lines. Missing lines or markers never fail a parse, the affected
// fields are left empty.
package parser

import (
	"errors"

	"resume-parser/internal/models"
)

// Section marker lines of the template.
const (
	SkillsMarker     = "Skills"
	ExperienceMarker = "Professional Experience"
	EducationMarker  = "Education"
)

// DefaultDivider is the record separator between job and education entries.
const DefaultDivider = "_____"

type Options struct {
	// Divider separates consecutive entries inside the experience and education sections.
	Divider string

	// StrictMarkers makes an extractor return nothing when one of its marker lines is
	// missing, instead of slicing relative to the -1 "not found" index.
	StrictMarkers bool
}

func DefaultOptions() Options {
	return Options{Divider: DefaultDivider}
}

// Parser is safe for concurrent use.
type Parser struct {
	divider string
	strict  bool
}

func New(opts Options) (*Parser, error) {
	if opts.Divider == "" {
		return nil, errors.New("parser: divider must not be empty")
	}
	return &Parser{divider: opts.Divider, strict: opts.StrictMarkers}, nil
}

func (p *Parser) Parse(rawText string) models.ParsedResume {
	lines := NewLineSequence(rawText)

	return models.ParsedResume{
		Personal:  extractPersonal(lines),
		Skills:    p.extractSkills(lines),
		Jobs:      p.extractJobs(lines),
		Education: p.extractEducation(lines),
	}
}

var defaultParser = &Parser{divider: DefaultDivider}

// ParseTextData parses rawText with DefaultOptions.
func ParseTextData(rawText string) models.ParsedResume {
	return defaultParser.Parse(rawText)
}
