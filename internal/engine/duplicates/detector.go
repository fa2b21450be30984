package duplicates

import "typelint/internal/engine/source"

type Options struct {
	MinFields           int
	NormalizeWhitespace bool
	TypeModules         source.TypeModules
}

// Detector runs extraction per file and comparison once over the union.
type Detector struct {
	extractor   *Extractor
	typeModules source.TypeModules
}

func NewDetector(opts Options) *Detector {
	tm := opts.TypeModules
	if len(tm.Filenames) == 0 && len(tm.Dirs) == 0 {
		tm = source.DefaultTypeModules()
	}
	return &Detector{
		extractor:   NewExtractor(ExtractOptions{MinFields: opts.MinFields, NormalizeWhitespace: opts.NormalizeWhitespace}),
		typeModules: tm,
	}
}

// Extract returns the definitions of f when rel names a type module.
func (d *Detector) Extract(f *source.File, rel string) []TypeDefinition {
	if !d.typeModules.Match(rel) {
		return nil
	}
	return d.extractor.Extract(f)
}

// Compare must only run once every file has been extracted.
func (d *Detector) Compare(defs []TypeDefinition) []Match {
	return Compare(defs)
}
