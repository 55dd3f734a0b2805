// Package loader reads catalog content files from a directory.
//
// Each content category lives in its own file (edges.json, races.yaml, ...)
// wrapped in an envelope naming the rules system it was written for.
// Missing files are empty categories.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/platform/config"
	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/directive"
)

const (
	// SystemID is the rules system content files must declare.
	SystemID = "savage-worlds"
	// SystemVersion is the rules edition content files must declare.
	SystemVersion = "swade"
)

var extensions = []string{".json", ".yaml", ".yml"}

// payload is the envelope around one category's items.
type payload[T any] struct {
	SystemID      string `json:"system_id" yaml:"system_id"`
	SystemVersion string `json:"system_version" yaml:"system_version"`
	Source        string `json:"source" yaml:"source"`
	Items         []T    `json:"items" yaml:"items"`
}

// Warning is a content problem that does not stop loading.
type Warning struct {
	File      string
	ID        string
	Directive string
	Message   string
}

// Result is a loaded catalog with what was read to build it.
type Result struct {
	Catalog  *catalog.Catalog
	Files    []string
	Warnings []Warning
}

// Loader reads content from a file system.
type Loader struct {
	fsys   fs.FS
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for content warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a loader over fsys.
func New(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{fsys: fsys, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir loads the catalog stored in dir.
func LoadDir(dir string, opts ...Option) (Result, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return Result{}, errors.New("catalog dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return Result{}, fmt.Errorf("open catalog dir: %w", err)
	}
	return New(os.DirFS(dir), opts...).Load()
}

// Load reads every category, validates the envelopes and indexes the result.
func (l *Loader) Load() (Result, error) {
	var (
		result  Result
		content catalog.Content
	)
	steps := []func(*Result, *catalog.Content) error{
		category(l, "skills", func(c *catalog.Content, items []catalog.Skill) { c.Skills = items }),
		category(l, "races", func(c *catalog.Content, items []catalog.Race) { c.Races = items }),
		category(l, "edges", func(c *catalog.Content, items []catalog.Edge) { c.Edges = items }),
		category(l, "hindrances", func(c *catalog.Content, items []catalog.Hindrance) { c.Hindrances = items }),
		category(l, "frameworks", func(c *catalog.Content, items []catalog.Framework) { c.Frameworks = items }),
		category(l, "arcane_backgrounds", func(c *catalog.Content, items []catalog.ArcaneBackground) { c.ArcaneBackgrounds = items }),
		category(l, "powers", func(c *catalog.Content, items []catalog.Power) { c.Powers = items }),
		category(l, "super_powers", func(c *catalog.Content, items []catalog.SuperPower) { c.SuperPowers = items }),
		category(l, "tables", func(c *catalog.Content, items []catalog.Table) { c.Tables = items }),
		category(l, "armor", func(c *catalog.Content, items []catalog.Armor) { c.Armor = items }),
		category(l, "weapons", func(c *catalog.Content, items []catalog.Weapon) { c.Weapons = items }),
		category(l, "gear", func(c *catalog.Content, items []catalog.Gear) { c.Gear = items }),
		category(l, "cyberware", func(c *catalog.Content, items []catalog.Cyberware) { c.Cyberware = items }),
		category(l, "robot_mods", func(c *catalog.Content, items []catalog.RobotMod) { c.RobotMods = items }),
		category(l, "vehicles", func(c *catalog.Content, items []catalog.Vehicle) { c.Vehicles = items }),
	}
	for _, step := range steps {
		if err := step(&result, &content); err != nil {
			return Result{}, err
		}
	}
	if len(result.Files) == 0 {
		return Result{}, apperrors.New(apperrors.CodeCatalogPayloadInvalid, "no catalog files found")
	}

	cat, err := catalog.New(content)
	if err != nil {
		return Result{}, err
	}
	result.Catalog = cat
	result.Warnings = append(result.Warnings, lint(content)...)
	for _, w := range result.Warnings {
		l.logger.Warn("catalog content warning",
			zap.String("file", w.File),
			zap.String("id", w.ID),
			zap.String("directive", w.Directive),
			zap.String("message", w.Message),
		)
	}
	l.logger.Info("catalog loaded", zap.Strings("files", result.Files), zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// category returns a load step for one content file.
func category[T any](l *Loader, name string, set func(*catalog.Content, []T)) func(*Result, *catalog.Content) error {
	return func(result *Result, content *catalog.Content) error {
		p, file, err := readPayload[T](l.fsys, name)
		if err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		if err := validatePayload(file, p.SystemID, p.SystemVersion, p.Source); err != nil {
			return err
		}
		result.Files = append(result.Files, file)
		set(content, p.Items)
		return nil
	}
}

// readPayload reads name with the first extension present. A missing file
// returns a nil payload.
func readPayload[T any](fsys fs.FS, name string) (*payload[T], string, error) {
	for _, ext := range extensions {
		file := name + ext
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, file, fmt.Errorf("read %s: %w", file, err)
		}
		var value payload[T]
		if err := decode(file, data, &value); err != nil {
			return nil, file, apperrors.WrapWithMetadata(
				apperrors.CodeCatalogPayloadInvalid,
				fmt.Sprintf("decode %s", file),
				map[string]string{"File": file},
				err,
			)
		}
		return &value, file, nil
	}
	return nil, "", nil
}

func decode(file string, data []byte, target any) error {
	if path.Ext(file) == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(target)
	}
	return config.DecodeYAML(data, target)
}

func validatePayload(file, systemID, systemVersion, source string) error {
	invalid := func(message string) error {
		return apperrors.WithMetadata(apperrors.CodeCatalogPayloadInvalid, fmt.Sprintf("%s: %s", file, message), map[string]string{"File": file})
	}
	if systemID != SystemID {
		return invalid(fmt.Sprintf("unsupported system id %q", systemID))
	}
	if systemVersion != SystemVersion {
		return invalid(fmt.Sprintf("unsupported system version %q", systemVersion))
	}
	if strings.TrimSpace(source) == "" {
		return invalid("source is required")
	}
	return nil
}

// lint reports directives whose action is not recognized. They load, and
// are inert at recompute time.
func lint(content catalog.Content) []Warning {
	var warnings []Warning
	check := func(file, id string, lines []string) {
		for _, line := range lines {
			d, err := directive.Parse(line)
			if err != nil {
				warnings = append(warnings, Warning{File: file, ID: id, Directive: line, Message: err.Error()})
				continue
			}
			if d.Kind == directive.KindUnknown {
				warnings = append(warnings, Warning{File: file, ID: id, Directive: line, Message: fmt.Sprintf("unknown directive %q", d.Action)})
			}
		}
	}
	checkLines := func(file, id string, lines []catalog.Line) {
		for _, line := range lines {
			check(file, id+"/"+line.ID, line.Directives)
			for _, alt := range line.Alternatives {
				check(file, id+"/"+line.ID, alt)
			}
		}
	}
	for _, r := range content.Races {
		check("races", r.ID, r.Directives)
	}
	for _, e := range content.Edges {
		check("edges", e.ID, e.Directives)
	}
	for _, h := range content.Hindrances {
		check("hindrances", h.ID, h.Directives)
	}
	for _, f := range content.Frameworks {
		checkLines("frameworks", f.ID, f.Bonuses)
		checkLines("frameworks", f.ID, f.Complications)
	}
	for _, ab := range content.ArcaneBackgrounds {
		check("arcane_backgrounds", ab.ID, ab.Directives)
	}
	for _, t := range content.Tables {
		checkLines("tables", t.ID, t.Lines)
	}
	for _, cw := range content.Cyberware {
		check("cyberware", cw.ID, cw.Directives)
	}
	for _, m := range content.RobotMods {
		check("robot_mods", m.ID, m.Directives)
	}
	return warnings
}
