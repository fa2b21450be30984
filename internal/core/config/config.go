package config

import "time"

// DefaultFile is looked up in the project root when --config is not given.
const DefaultFile = "typelint.toml"

type Config struct {
	Version              int         `toml:"version"`
	ProjectConfig        string      `toml:"project_config"`
	Extensions           []string    `toml:"extensions"`
	DeclarationExtension string      `toml:"declaration_extension"`
	Exclude              []string    `toml:"exclude"`
	Workers              int         `toml:"workers"`
	TypeModules          TypeModules `toml:"type_modules"`
	Exports              Exports     `toml:"exports"`
	Duplicates           Duplicates  `toml:"duplicates"`
	Barrel               Barrel      `toml:"barrel"`
	TypeImports          Toggle      `toml:"type_imports"`
	InlineTypes          Toggle      `toml:"inline_types"`
	Output               Output      `toml:"output"`
	Watch                Watch       `toml:"watch"`
}

type TypeModules struct {
	Filenames []string `toml:"filenames"`
	Dirs      []string `toml:"dirs"`
}

// Toggle is a check that is on unless explicitly disabled.
type Toggle struct {
	Enabled *bool `toml:"enabled"`
}

func (t Toggle) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

type Exports struct {
	Toggle
	Lookahead         int      `toml:"lookahead"`
	ValidatorPatterns []string `toml:"validator_patterns"`
	Suppress          []string `toml:"suppress"`
}

type Duplicates struct {
	Toggle
	MinFields           int   `toml:"min_fields"`
	NormalizeWhitespace *bool `toml:"normalize_whitespace"`
	FailOnMatch         bool  `toml:"fail_on_match"`
}

func (d Duplicates) Normalize() bool {
	return d.NormalizeWhitespace == nil || *d.NormalizeWhitespace
}

type Barrel struct {
	Toggle
	Filenames []string `toml:"filenames"`
}

type Output struct {
	Format string `toml:"format"`
	FailOn string `toml:"fail_on"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}
