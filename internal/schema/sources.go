package schema

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/goalfund/internal/model"
)

// AddSource appends a source column. An empty name generates "Source N"
// where N starts at len(sources)+1 and increments until unused.
func AddSource(p model.Plan, name string, d model.Defaults) (model.Plan, model.Source, error) {
	if name == "" {
		name = nextName(p.SourceNames(), "Source", len(p.Sources)+1)
	} else {
		if !validSourceName(name) {
			return p, model.Source{}, fmt.Errorf("adding source %q: %w", name, ErrInvalidName)
		}
		if p.SourceIndex(name) >= 0 {
			return p, model.Source{}, fmt.Errorf("adding source %q: %w", name, ErrDuplicateName)
		}
	}
	if d.SourceROI < 0 {
		return p, model.Source{}, fmt.Errorf("adding source %q: %w", name, ErrInvalidROI)
	}

	src := model.Source{Name: name, ROI: d.SourceROI}
	out := p.Clone()
	out.Sources = append(out.Sources, src)
	return Reconcile(out), src, nil
}

// RenameSource renames a source in place and moves every goal's allocation
// to the new key. Renaming a source to its current name is a no-op.
func RenameSource(p model.Plan, oldName, newName string) (model.Plan, error) {
	if !validSourceName(newName) {
		return p, fmt.Errorf("renaming source %q to %q: %w", oldName, newName, ErrInvalidName)
	}
	idx := p.SourceIndex(oldName)
	if idx < 0 {
		return p, fmt.Errorf("renaming source %q: %w", oldName, ErrSourceNotFound)
	}
	if newName == oldName {
		return p, nil
	}
	if other := p.SourceIndex(newName); other >= 0 && other != idx {
		return p, fmt.Errorf("renaming source %q to %q: %w", oldName, newName, ErrDuplicateName)
	}

	out := p.Clone()
	out.Sources[idx].Name = newName
	for i := range out.Goals {
		g := &out.Goals[i]
		if g.Allocations == nil {
			continue
		}
		amount, ok := g.Allocations[oldName]
		delete(g.Allocations, oldName)
		if ok {
			g.Allocations[newName] = amount
		}
	}
	return Reconcile(out), nil
}

// SetSourceROI changes the expected return of a source.
func SetSourceROI(p model.Plan, name string, roi float64) (model.Plan, error) {
	if roi < 0 {
		return p, fmt.Errorf("setting roi of %q: %w", name, ErrInvalidROI)
	}
	idx := p.SourceIndex(name)
	if idx < 0 {
		return p, fmt.Errorf("setting roi of %q: %w", name, ErrSourceNotFound)
	}
	out := p.Clone()
	out.Sources[idx].ROI = roi
	return out, nil
}

// DeleteSource removes a source and its column from every goal.
// Deleting an unknown source returns the plan unchanged.
func DeleteSource(p model.Plan, name string) model.Plan {
	idx := p.SourceIndex(name)
	if idx < 0 {
		return p
	}
	out := p.Clone()
	out.Sources = append(out.Sources[:idx], out.Sources[idx+1:]...)
	for i := range out.Goals {
		delete(out.Goals[i].Allocations, name)
	}
	return Reconcile(out)
}

// Validate reports structural problems in the source list: blank,
// reserved or repeated names and negative returns.
func Validate(p model.Plan) error {
	seen := make(map[string]struct{}, len(p.Sources))
	for _, s := range p.Sources {
		if !validSourceName(s.Name) {
			return fmt.Errorf("source name %q: %w", s.Name, ErrInvalidName)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("source %q: %w", s.Name, ErrDuplicateName)
		}
		if s.ROI < 0 {
			return fmt.Errorf("source %q: %w", s.Name, ErrInvalidROI)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validSourceName rejects blank names and the base goal columns, which
// share a goal record with the source columns.
func validSourceName(name string) bool {
	return !isBlank(name) && !model.IsBaseColumn(name)
}

// nextName returns "<prefix> N" for the first N >= start not in taken.
func nextName(taken []string, prefix string, start int) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	for n := start; ; n++ {
		name := fmt.Sprintf("%s %d", prefix, n)
		if _, ok := used[name]; !ok {
			return name
		}
	}
}
