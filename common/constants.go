package common

const (
	SrcFileExtension = ".fu"
	ModuleFileName   = "fusion-mod.toml"
	FusionVersion    = "0.1.0"

	// DefaultIntermediate is the name of the C file written next to the
	// build output before it is handed to the native compiler
	DefaultIntermediate = "output.c"
	DefaultCompiler     = "gcc"
	DefaultFormatter    = "clang-format"
)

// FusionPath is the path to the Fusion installation directory.  It is used to
// locate the parsing table cache; it is left empty when no installation
// directory is known.
var FusionPath = ""
