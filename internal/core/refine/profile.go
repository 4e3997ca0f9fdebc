// Package refine turns a full graph export into the reduced schema views
// shown to a model when it writes queries.
package refine

import (
	"fmt"
	"sort"

	"github.com/agenthands/graphdiff/internal/config"
)

// CommonFields is the Keep key whose fields are allowed on every label.
const CommonFields = "common"

type FoldRule = config.FoldRule

// Profile describes one cleaning pass. Values are never mutated after
// construction; WithOverrides returns a copy.
type Profile struct {
	Name       string
	Keep       map[string][]string
	Exclude    []string
	SkipLabels []string
	Fold       []FoldRule
	DropEdges  bool
	OmitIDs    bool
	ExtraNodes []map[string]any
}

var timeAndMeta = []string{
	"dateCreated", "dateModified", "dateObserved", "timestamp_kafka",
	"unixtimestampCreated", "unixtimestampModified", "timestamp_subscription",
	"domain", "namespace", "belongsTo", "hasDevice", "hasAgriParcel",
}

var deviceFold = []FoldRule{
	{From: "belongsTo", To: "hasDevice", Reverse: true},
	{From: "hasDevice", To: "hasDevice"},
}

func builtins() map[string]Profile {
	v0 := Profile{
		Name: "v0",
		Keep: map[string][]string{
			CommonFields: {"id", "name"},
			"AgriFarm":   {"location"},
			"AgriParcel": {"location"},
			"Device":     {"location"},
		},
		Exclude: append(append([]string(nil), timeAndMeta...),
			"description", "irrigationSystemType", "type", "value", "x", "y", "z",
			"controlledProperty", "deviceCategory", "colture"),
		SkipLabels: []string{"Measurement"},
		Fold:       deviceFold,
	}

	v1 := Profile{
		Name: "v1",
		Keep: map[string][]string{
			CommonFields: {"id", "name", "type"},
			"AgriFarm":   {"location"},
			"AgriParcel": {"location", "colture", "irrigationSystemType"},
			"Device":     {"location", "value", "controlledProperty", "deviceCategory", "x", "y", "z"},
		},
		Exclude:    append(append([]string(nil), timeAndMeta...), "hasMeasurement"),
		SkipLabels: []string{"Measurement"},
		Fold:       deviceFold,
	}

	v2 := v1.clone()
	v2.Name = "v2"
	v2.DropEdges = true
	v2.OmitIDs = true
	v2.ExtraNodes = []map[string]any{{
		"id":   "table:public.measurements",
		"name": "public.measurements",
		"columns": []any{
			"id", "device_id", "timestamp", "controlled_property", "value", "raw_value", "location",
		},
	}}

	return map[string]Profile{"v0": v0, "v1": v1, "v2": v2}
}

// Names lists the built-in profile names.
func Names() []string {
	names := make([]string, 0, 3)
	for name := range builtins() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named built-in profile with any configured overrides
// applied. Profiles that exist only in configuration start empty.
func Lookup(name string, cfg config.RefineConfig) (Profile, error) {
	p, ok := builtins()[name]
	override, configured := cfg.Profiles[name]
	if !ok && !configured {
		return Profile{}, fmt.Errorf("unknown refine profile %q (built-in: %v)", name, Names())
	}
	if !ok {
		p = Profile{Name: name}
	}
	if configured {
		p = p.WithOverrides(override)
	}
	return p, nil
}

// WithOverrides returns a copy of p with every non-empty field of o replacing
// the corresponding field.
func (p Profile) WithOverrides(o config.ProfileConfig) Profile {
	out := p.clone()
	if len(o.Keep) > 0 {
		out.Keep = make(map[string][]string, len(o.Keep))
		for k, v := range o.Keep {
			out.Keep[k] = append([]string(nil), v...)
		}
	}
	if o.Exclude != nil {
		out.Exclude = append([]string(nil), o.Exclude...)
	}
	if o.SkipLabels != nil {
		out.SkipLabels = append([]string(nil), o.SkipLabels...)
	}
	if o.Fold != nil {
		out.Fold = append([]FoldRule(nil), o.Fold...)
	}
	if o.DropEdges != nil {
		out.DropEdges = *o.DropEdges
	}
	if o.OmitIDs != nil {
		out.OmitIDs = *o.OmitIDs
	}
	if o.ExtraNodes != nil {
		out.ExtraNodes = append([]map[string]any(nil), o.ExtraNodes...)
	}
	return out
}

func (p Profile) clone() Profile {
	out := p
	out.Keep = make(map[string][]string, len(p.Keep))
	for k, v := range p.Keep {
		out.Keep[k] = append([]string(nil), v...)
	}
	out.Exclude = append([]string(nil), p.Exclude...)
	out.SkipLabels = append([]string(nil), p.SkipLabels...)
	out.Fold = append([]FoldRule(nil), p.Fold...)
	out.ExtraNodes = append([]map[string]any(nil), p.ExtraNodes...)
	return out
}

func (p Profile) allowed(label string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range p.Keep[CommonFields] {
		set[f] = true
	}
	for _, f := range p.Keep[label] {
		set[f] = true
	}
	return set
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
