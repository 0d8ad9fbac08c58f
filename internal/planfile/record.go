package planfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/schema"
)

// field is one key/value pair of an ordered record.
type field struct {
	Key   string
	Value any
}

// record keeps keys in insertion order when encoded.
type record []field

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		var val yaml.Node
		if err := val.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&val,
		)
	}
	return node, nil
}

// document is the on-disk shape.
type document struct {
	Sources []model.Source `json:"sources" yaml:"sources"`
	Goals   []record       `json:"df" yaml:"df"`
}

func toDocument(p model.Plan) document {
	p = schema.Reconcile(p)
	doc := document{
		Sources: make([]model.Source, len(p.Sources)),
		Goals:   make([]record, 0, len(p.Goals)),
	}
	copy(doc.Sources, p.Sources)

	for _, g := range p.Goals {
		rec := record{
			{model.ColGoal, g.Name},
			{model.ColPriority, g.Priority},
			{model.ColCost, g.CurrentCost},
			{model.ColYears, g.Years},
			{model.ColMonths, g.Months},
			{model.ColInflation, g.InflationPct},
			{model.ColNewROI, g.NewROIPct},
		}
		for _, s := range p.Sources {
			rec = append(rec, field{s.Name, g.Allocations[s.Name]})
		}
		doc.Goals = append(doc.Goals, rec)
	}
	return doc
}

// fromGeneric builds a plan from a decoded document whose values are the
// generic types produced by encoding/json (with UseNumber) or yaml.v3.
func fromGeneric(raw map[string]any) (model.Plan, error) {
	rawSources, ok := raw["sources"]
	if !ok {
		return model.Plan{}, malformed("missing %q", "sources")
	}
	srcList, ok := asList(rawSources)
	if !ok {
		return model.Plan{}, malformed("%q is not a list", "sources")
	}

	var plan model.Plan
	for i, item := range srcList {
		src, err := decodeSource(item)
		if err != nil {
			return model.Plan{}, &MalformedPlanError{Reason: fmt.Sprintf("source %d", i+1), Err: err}
		}
		plan.Sources = append(plan.Sources, src)
	}
	if err := schema.Validate(plan); err != nil {
		return model.Plan{}, &MalformedPlanError{Reason: "sources", Err: err}
	}

	rawGoals, ok := raw["df"]
	if !ok {
		rawGoals, ok = raw["goals"]
	}
	if !ok {
		return model.Plan{}, malformed("missing %q", "df")
	}
	goalList, ok := asList(rawGoals)
	if !ok {
		return model.Plan{}, malformed("goal records are not a list")
	}

	known := make(map[string]struct{}, len(plan.Sources))
	for _, src := range plan.Sources {
		known[src.Name] = struct{}{}
	}
	for i, item := range goalList {
		rec, ok := asMap(item)
		if !ok {
			return model.Plan{}, malformed("goal record %d is not an object", i+1)
		}
		g, err := decodeGoal(rec, i, known)
		if err != nil {
			return model.Plan{}, &MalformedPlanError{Reason: fmt.Sprintf("goal record %d", i+1), Err: err}
		}
		plan.Goals = append(plan.Goals, g)
	}

	plan = schema.Reconcile(plan)
	if err := schema.Validate(plan); err != nil {
		return model.Plan{}, &MalformedPlanError{Reason: "plan", Err: err}
	}
	return plan, nil
}

func decodeSource(item any) (model.Source, error) {
	if name, ok := item.(string); ok {
		return model.Source{Name: name}, nil
	}
	m, ok := asMap(item)
	if !ok {
		return model.Source{}, fmt.Errorf("expected name or {name, roi}, got %T", item)
	}
	name, ok := m["name"].(string)
	if !ok {
		return model.Source{}, fmt.Errorf("missing name")
	}
	roi, ok := toFloat(m["roi"])
	if !ok {
		return model.Source{}, fmt.Errorf("source %q: roi is not a number", name)
	}
	return model.Source{Name: name, ROI: roi}, nil
}

// decodeGoal reads one goal record. Only columns named in known become
// allocations; anything else in the record is ignored.
func decodeGoal(rec map[string]any, idx int, known map[string]struct{}) (model.Goal, error) {
	g := model.Goal{Allocations: make(map[string]float64)}

	switch v := rec[model.ColGoal].(type) {
	case string:
		g.Name = v
	case nil:
		return g, fmt.Errorf("missing %q", model.ColGoal)
	default:
		g.Name = fmt.Sprint(v)
	}

	num := func(col string) (float64, error) {
		v, ok := toFloat(rec[col])
		if !ok {
			return 0, fmt.Errorf("%q is not a number", col)
		}
		return v, nil
	}

	var err error
	var f float64
	if _, present := rec[model.ColPriority]; present {
		if f, err = num(model.ColPriority); err != nil {
			return g, err
		}
		g.Priority = int(math.Round(f))
	} else {
		g.Priority = idx + 1
	}
	if g.CurrentCost, err = num(model.ColCost); err != nil {
		return g, err
	}
	if f, err = num(model.ColYears); err != nil {
		return g, err
	}
	g.Years = int(math.Round(f))
	if f, err = num(model.ColMonths); err != nil {
		return g, err
	}
	g.Months = int(math.Round(f))
	if g.InflationPct, err = num(model.ColInflation); err != nil {
		return g, err
	}
	if g.NewROIPct, err = num(model.ColNewROI); err != nil {
		return g, err
	}

	schema.NormalizeTenure(&g)

	for name := range known {
		v, present := rec[name]
		if !present {
			continue
		}
		amount, ok := toFloat(v)
		if !ok {
			return g, fmt.Errorf("allocation %q is not a number", name)
		}
		g.Allocations[name] = amount
	}
	return g, nil
}

// toFloat accepts the numeric shapes decoders produce. A missing or null
// value is zero.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case bool:
		return 0, false
	}
	return 0, false
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
