package resume

import (
	"context"
	"fmt"

	apperrors "resume-parser/internal/errors"
	"resume-parser/internal/models"
	"resume-parser/internal/parser"
	"resume-parser/internal/pdftext"

	"go.uber.org/zap"
)

type Decoder interface {
	Decode(data []byte) (*pdftext.Document, error)
}

type TextParser interface {
	Parse(rawText string) models.ParsedResume
}

// Service gates uploads on the template author and parses the accepted ones.
type Service struct {
	decoder        Decoder
	parser         TextParser
	templateAuthor string
	logger         *zap.Logger
}

func NewService(decoder Decoder, p TextParser, templateAuthor string, logger *zap.Logger) *Service {
	return &Service{
		decoder:        decoder,
		parser:         p,
		templateAuthor: templateAuthor,
		logger:         logger,
	}
}

// NewDefaultService wires the pdf decoder and a text parser built from opts.
func NewDefaultService(opts parser.Options, templateAuthor string, logger *zap.Logger) (*Service, error) {
	p, err := parser.New(opts)
	if err != nil {
		return nil, err
	}
	return NewService(pdftext.NewDecoder(), p, templateAuthor, logger), nil
}

// Parse returns the parsed resume, or a *errors.Rejection describing why the document was
// not accepted. The only other error is a cancelled context.
func (s *Service) Parse(ctx context.Context, data []byte) (*models.ParsedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.decoder.Decode(data)
	if err != nil {
		s.logger.Warn("pdf decode failed", zap.Error(err))
		return nil, apperrors.NewDecodeError(err)
	}

	if doc.Author != s.templateAuthor {
		s.logger.Info("rejected resume from unsupported template", zap.String("author", doc.Author))
		return nil, apperrors.NewWrongTemplate(doc.Author)
	}

	result, err := s.parseText(doc.Text)
	if err != nil {
		s.logger.Error("resume text parsing failed", zap.Error(err))
		return nil, apperrors.NewMalformedInput(err)
	}

	s.logger.Debug("resume parsed",
		zap.Int("pages", doc.Pages),
		zap.Int("skills", len(result.Skills)),
		zap.Int("jobs", len(result.Jobs)),
		zap.Int("education", len(result.Education)),
	)
	return &result, nil
}

func (s *Service) parseText(text string) (result models.ParsedResume, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while parsing resume text: %v", r)
		}
	}()

	return s.parser.Parse(text), nil
}
