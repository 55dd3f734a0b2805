// Package catalogcheck validates a catalog content directory before it is
// shipped: envelopes, duplicate ids, directive syntax and cross references.
package catalogcheck

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog/filter"
	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog/loader"
)

// Config holds configuration for the catalog check.
type Config struct {
	Dir     string
	Setting string
	Strict  bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Dir, "dir", "content", "catalog content directory")
	fs.StringVar(&cfg.Setting, "setting", "", "setting YAML file checked against the catalog")
	fs.BoolVar(&cfg.Strict, "strict", false, "fail when any problem is found")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}
	return cfg, nil
}

// Problem is a content issue that loading tolerates.
type Problem struct {
	File    string
	ID      string
	Message string
}

// Run loads the catalog in cfg.Dir and reports what it found.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := loader.LoadDir(cfg.Dir)
	if err != nil {
		return err
	}
	setting := catalog.DefaultSetting()
	if cfg.Setting != "" {
		if setting, err = catalog.LoadSetting(cfg.Setting); err != nil {
			return err
		}
	}

	var problems []Problem
	for _, w := range result.Warnings {
		problems = append(problems, Problem{File: w.File, ID: w.ID, Message: w.Message})
	}
	problems = append(problems, References(result.Catalog, setting)...)

	if err := writeSummary(out, result.Catalog); err != nil {
		return err
	}
	for _, p := range problems {
		if _, err := fmt.Fprintf(out, "%s: %s: %s\n", p.File, p.ID, p.Message); err != nil {
			return err
		}
	}
	if cfg.Strict && len(problems) > 0 {
		return fmt.Errorf("%d catalog problems found", len(problems))
	}
	_, err = fmt.Fprintf(out, "checked %d file(s), %d problem(s)\n", len(result.Files), len(problems))
	return err
}

func writeSummary(out io.Writer, cat *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, kind := range filter.Kinds() {
		rows, err := filter.List(cat, kind, "")
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			fmt.Fprintf(w, "%s\t%d\n", kind, len(rows))
		}
	}
	return w.Flush()
}

// References reports ids that point at nothing in the catalog.
func References(cat *catalog.Catalog, setting catalog.Setting) []Problem {
	var problems []Problem
	missing := func(file, id, kind, ref string) {
		problems = append(problems, Problem{File: file, ID: id, Message: catalog.ErrItemNotFound(kind, ref).Error()})
	}
	traitOrFlaw := func(ref string) bool {
		return cat.Edges.Has(ref) || cat.Hindrances.Has(ref)
	}

	for _, e := range cat.Edges.All() {
		for _, ref := range e.Requires.Edges {
			if !cat.Edges.Has(ref) {
				missing("edges", e.ID, "edge", ref)
			}
		}
		for skill := range e.Requires.Skills {
			if !cat.Skills.Has(skill) {
				missing("edges", e.ID, "skill", skill)
			}
		}
		for _, ref := range e.Conflicts {
			if !traitOrFlaw(ref) {
				missing("edges", e.ID, "edge or hindrance", ref)
			}
		}
	}
	for _, h := range cat.Hindrances.All() {
		for _, ref := range h.Conflicts {
			if !traitOrFlaw(ref) {
				missing("hindrances", h.ID, "edge or hindrance", ref)
			}
		}
	}
	for _, ab := range cat.ArcaneBackgrounds.All() {
		if ab.Skill != "" && !cat.Skills.Has(ab.Skill) {
			missing("arcane_backgrounds", ab.ID, "skill", ab.Skill)
		}
		for _, ref := range ab.Powers {
			if !cat.Powers.Has(ref) {
				missing("arcane_backgrounds", ab.ID, "power", ref)
			}
		}
		for _, ref := range ab.Banned {
			if !cat.ArcaneBackgrounds.Has(ref) {
				missing("arcane_backgrounds", ab.ID, "arcane background", ref)
			}
		}
	}
	for _, ref := range slices.Concat(setting.AllowedArcaneBackgrounds, setting.BannedArcaneBackgrounds) {
		if !cat.ArcaneBackgrounds.Has(ref) {
			missing("setting", setting.ID, "arcane background", ref)
		}
	}
	return problems
}
