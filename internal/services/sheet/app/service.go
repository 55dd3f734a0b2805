// Package app coordinates character sheets: it loads documents, serializes
// mutation and recompute per character, and persists the result.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/document"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/derive"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/validate"
	"github.com/louisbranch/savagesheet/internal/services/sheet/storage"
)

const tracerName = "github.com/louisbranch/savagesheet/internal/services/sheet/app"

// Service owns the open character sheets.
type Service struct {
	pipeline *derive.Pipeline
	codec    *document.Codec
	store    storage.CharacterStore
	logger   *zap.Logger
	tracer   trace.Tracer

	mu     sync.Mutex
	sheets map[string]*sheet
}

// sheet is one open character. mu serializes mutate and recompute.
type sheet struct {
	mu     sync.Mutex
	c      *character.Aggregate
	report validate.Report
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for recompute spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithStore sets the persistence backend. Without one, Open and Save fail.
func WithStore(store storage.CharacterStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// New returns a service computing against pipeline and codec.
func New(pipeline *derive.Pipeline, codec *document.Codec, opts ...Option) (*Service, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if codec == nil {
		return nil, errors.New("document codec is required")
	}
	s := &Service{
		pipeline: pipeline,
		codec:    codec,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		sheets:   map[string]*sheet{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog returns the catalog characters are built from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.pipeline.Catalog()
}

// Create opens a new character, lets build fill it in and recomputes it.
func (s *Service) Create(ctx context.Context, build func(*character.Aggregate) error) (string, validate.Report, error) {
	c := character.New(s.Catalog().Skills.All())
	c.SettingID = s.pipeline.Setting().ID
	if build != nil {
		if err := build(c); err != nil {
			return "", validate.Report{}, err
		}
	}
	if _, err := s.codec.Export(c); err != nil {
		return "", validate.Report{}, err
	}
	sh := &sheet{c: c}
	report := s.recompute(ctx, sh)
	s.register(c.ID, sh)
	return c.ID, report, nil
}

// Import opens a character from document bytes. Parts the catalog does not
// know are reported as issues and left out.
func (s *Service) Import(ctx context.Context, data []byte) (string, []document.Issue, error) {
	doc, err := document.Decode(data)
	if err != nil {
		return "", nil, err
	}
	c, issues := s.codec.Import(doc)
	if c.ID == "" {
		if _, err := s.codec.Export(c); err != nil {
			return "", nil, err
		}
	}
	sh := &sheet{c: c}
	s.recompute(ctx, sh)
	s.register(c.ID, sh)
	return c.ID, issues, nil
}

// Open loads a stored character and recomputes it.
func (s *Service) Open(ctx context.Context, id string) ([]document.Issue, error) {
	ctx, span := s.tracer.Start(ctx, "sheet.open", trace.WithAttributes(attribute.String("character.id", id)))
	defer span.End()

	if s.store == nil {
		return nil, errors.New("character store is not configured")
	}
	record, err := s.store.GetCharacter(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load character")
		return nil, err
	}
	doc, err := document.Decode(record.Document)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode character")
		return nil, err
	}
	c, issues := s.codec.Import(doc)
	c.ID = record.ID
	sh := &sheet{c: c}
	s.recompute(ctx, sh)
	s.register(c.ID, sh)
	span.SetAttributes(attribute.Int("import.issues", len(issues)))
	s.logger.Info("character opened", zap.String("character", id), zap.Int("issues", len(issues)))
	return issues, nil
}

// Mutate runs fn against the character and recomputes it. When fn changed a
// selection, the character is rebuilt from its own document first, so edges
// and powers granted by the old choice do not linger. The recompute runs
// even when fn fails part way.
func (s *Service) Mutate(ctx context.Context, id string, fn func(*character.Aggregate) error) (validate.Report, error) {
	sh, err := s.lookup(id)
	if err != nil {
		return validate.Report{}, err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()

	fnErr := fn(sh.c)
	if sh.c.Modified() {
		if err := s.rebuild(sh); err != nil {
			return validate.Report{}, err
		}
	}
	report := s.recompute(ctx, sh)
	return report, fnErr
}

// rebuild replaces the aggregate with a fresh import of its own export.
func (s *Service) rebuild(sh *sheet) error {
	doc, err := s.codec.Export(sh.c)
	if err != nil {
		return err
	}
	c, issues := s.codec.Import(doc)
	for _, issue := range issues {
		s.logger.Warn("rebuild dropped selection",
			zap.String("character", sh.c.ID),
			zap.String("path", issue.Path),
			zap.String("message", issue.Message),
		)
	}
	s.logger.Debug("character rebuilt after selection change", zap.String("character", sh.c.ID))
	sh.c = c
	return nil
}

// Recompute derives the character again.
func (s *Service) Recompute(ctx context.Context, id string) (validate.Report, error) {
	sh, err := s.lookup(id)
	if err != nil {
		return validate.Report{}, err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return s.recompute(ctx, sh), nil
}

// View calls fn with the character and its last report. fn must not mutate.
func (s *Service) View(id string, fn func(*character.Aggregate, validate.Report)) error {
	sh, err := s.lookup(id)
	if err != nil {
		return err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fn(sh.c, sh.report)
	return nil
}

// Export renders the character's document.
func (s *Service) Export(ctx context.Context, id string) ([]byte, error) {
	sh, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()

	doc, err := s.codec.Export(sh.c)
	if err != nil {
		return nil, err
	}
	sh.c.UpdatedAt = doc.UpdatedAt
	return document.Encode(doc)
}

// Save stores the character's document with its current validity.
func (s *Service) Save(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "sheet.save", trace.WithAttributes(attribute.String("character.id", id)))
	defer span.End()

	if s.store == nil {
		return errors.New("character store is not configured")
	}
	sh, err := s.lookup(id)
	if err != nil {
		return err
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()

	doc, err := s.codec.Export(sh.c)
	if err != nil {
		return err
	}
	data, err := document.Encode(doc)
	if err != nil {
		return err
	}
	record := storage.CharacterRecord{
		ID:        sh.c.ID,
		Name:      sh.c.Name,
		Document:  data,
		Validity:  sh.report.Validity,
		UpdatedAt: doc.UpdatedAt,
	}
	if err := s.store.PutCharacter(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store character")
		return fmt.Errorf("save character %s: %w", id, err)
	}
	sh.c.UpdatedAt = doc.UpdatedAt
	s.logger.Info("character saved", zap.String("character", id), zap.Stringer("validity", sh.report.Validity))
	return nil
}

// List pages through stored characters.
func (s *Service) List(ctx context.Context, pageSize int, pageToken string) (storage.CharacterPage, error) {
	if s.store == nil {
		return storage.CharacterPage{}, errors.New("character store is not configured")
	}
	return s.store.ListCharacters(ctx, pageSize, pageToken)
}

// Delete removes a stored character and forgets it if open.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return errors.New("character store is not configured")
	}
	if err := s.store.DeleteCharacter(ctx, id); err != nil {
		return err
	}
	s.Close(id)
	s.logger.Info("character deleted", zap.String("character", id))
	return nil
}

// Close forgets an open character without saving it.
func (s *Service) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sheets, id)
}

func (s *Service) register(id string, sh *sheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[id] = sh
}

func (s *Service) lookup(id string) (*sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.sheets[strings.TrimSpace(id)]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeCharacterNotFound, "character is not open", map[string]string{"Character": id})
	}
	return sh, nil
}

// recompute runs the pipeline inside a span. Callers hold sh.mu or own sh.
func (s *Service) recompute(ctx context.Context, sh *sheet) validate.Report {
	_, span := s.tracer.Start(ctx, "sheet.recompute", trace.WithAttributes(attribute.String("character.id", sh.c.ID)))
	defer span.End()

	report := s.pipeline.Run(sh.c)
	sh.c.Acknowledge()
	sh.report = report

	span.SetAttributes(
		attribute.String("sheet.validity", report.Validity.String()),
		attribute.Int("sheet.errors", report.Count(rules.SeverityError)),
		attribute.Int("sheet.warnings", report.Count(rules.SeverityWarning)),
		attribute.String("sheet.rank", sh.c.Rank().Title()),
	)
	return report
}
