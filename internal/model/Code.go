package model

// EntryPoint is the bundle key the compiler treats as the program's starting unit.
const EntryPoint = "main.ts"

// SourceBundle maps a logical filename to its source text.
type SourceBundle map[string]string

// Entry returns the entry point source and whether it was supplied.
func (b SourceBundle) Entry() (string, bool) {
	text, ok := b[EntryPoint]
	return text, ok
}

// Artifact is the compiled output of one request.
// Dir is request scoped and is removed by whoever owns the artifact last.
type Artifact struct {
	Dir  string
	Path string
}
