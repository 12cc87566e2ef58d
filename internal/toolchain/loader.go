package toolchain

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/sudankdk/pxexec/internal/model"
)

// Placeholders substituted into command templates.
const (
	SrcVar      = "{src}"
	OutVar      = "{out}"
	ArtifactVar = "{artifact}"
)

type Toolchain struct {
	Entry    string   `json:"entry"`
	Compiler []string `json:"compiler"`
	Artifact string   `json:"artifact"`
	Runtime  []string `json:"runtime"`
	Image    string   `json:"image"`
	Prelude  string   `json:"prelude"`
}

// Default is the TypeScript toolchain used when no file is configured.
func Default() Toolchain {
	return Toolchain{
		Entry:    model.EntryPoint,
		Compiler: []string{"tsc", "--outDir", OutVar, SrcVar},
		Artifact: "main.js",
		Runtime:  []string{"node", ArtifactVar},
		Image:    "node:20-alpine",
	}
}

// Load reads a toolchain description from path. Missing fields fall back to Default.
func Load(path string) (Toolchain, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Toolchain{}, err
	}
	var t Toolchain
	if err := json.Unmarshal(data, &t); err != nil {
		return Toolchain{}, err
	}

	def := Default()
	if t.Entry == "" {
		t.Entry = def.Entry
	}
	if t.Artifact == "" {
		t.Artifact = def.Artifact
	}
	if len(t.Compiler) == 0 {
		t.Compiler = def.Compiler
	}
	if len(t.Runtime) == 0 {
		t.Runtime = def.Runtime
	}
	if t.Image == "" {
		t.Image = def.Image
	}
	return t, t.Validate()
}

func (t Toolchain) Validate() error {
	if len(t.Compiler) == 0 || t.Compiler[0] == "" {
		return errors.New("toolchain: compiler command is empty")
	}
	if len(t.Runtime) == 0 || t.Runtime[0] == "" {
		return errors.New("toolchain: runtime command is empty")
	}
	return nil
}

// Expand returns a copy of tmpl with every placeholder replaced by vars.
func Expand(tmpl []string, vars map[string]string) []string {
	out := make([]string, len(tmpl))
	for i, arg := range tmpl {
		for k, v := range vars {
			arg = strings.ReplaceAll(arg, k, v)
		}
		out[i] = arg
	}
	return out
}
