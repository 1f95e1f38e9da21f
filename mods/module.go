package mods

// FusionModule represents a module: a directory containing a module file and
// the Fusion sources built with it.
type FusionModule struct {
	// Name is the name of the module
	Name string

	// ModuleRoot is the path to the root directory of the current module
	ModuleRoot string

	// FusionVersion is the version of Fusion the module was created with
	FusionVersion string

	// GrammarPath is the absolute path to a grammar overriding the built-in
	// grammar.  It is empty if the built-in grammar should be used.
	GrammarPath string
}

// BuildProfile represents the profile that compiler will use to build -- it is
// returned from `LoadModule`.
type BuildProfile struct {
	// Name is the name of the profile
	Name string

	// OutputPath is the path to the final executable
	OutputPath string

	// Compiler is the C compiler used to build the intermediate C file
	Compiler string

	// CFlags are the extra flags passed to the C compiler
	CFlags []string

	// Formatter is the formatter the generated C is passed through.  It may be
	// empty in which case the C is written as generated.
	Formatter string

	// IntermediatePath is the path the generated C is written to before it is
	// compiled
	IntermediatePath string

	// KeepIntermediate indicates whether the intermediate C file should be
	// kept after compilation
	KeepIntermediate bool
}

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier (module name, profile name, etc.)
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	if idstr[0] == '_' || ('a' <= idstr[0] && idstr[0] <= 'z') || ('A' <= idstr[0] && idstr[0] <= 'Z') {
		for _, c := range idstr[1:] {
			if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
				continue
			}

			return false
		}

		return true
	}

	return false
}
