package config

// FoldRule rewrites edges of type From into edges of type To. With Reverse the
// endpoints are swapped, so `device belongsTo farm` becomes `farm hasDevice device`.
type FoldRule struct {
	From    string `toml:"from" validate:"required"`
	To      string `toml:"to" validate:"required"`
	Reverse bool   `toml:"reverse"`
}

// ProfileConfig overrides a refine profile. Empty fields keep the built-in value.
type ProfileConfig struct {
	Keep       map[string][]string `toml:"keep"`
	Exclude    []string            `toml:"exclude"`
	SkipLabels []string            `toml:"skip_labels"`
	Fold       []FoldRule          `toml:"fold" validate:"dive"`
	DropEdges  *bool               `toml:"drop_edges"`
	OmitIDs    *bool               `toml:"omit_ids"`
	ExtraNodes []map[string]any    `toml:"extra_nodes"`
}

type RefineConfig struct {
	Profiles map[string]ProfileConfig `toml:"profiles" validate:"dive"`
}
