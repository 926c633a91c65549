package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/inferc/internal/ast"
)

// CompileSource compiles one rule file held in memory. name is used as the
// file name in positions.
func CompileSource(name string, src []byte) (*ast.Module, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(name))
	return CompileModule(v)
}

// CompileFile reads and compiles a single .cue file.
func CompileFile(path string) (*ast.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return CompileSource(path, src)
}

// CompileDir loads every .cue file of the package in dir as one CUE
// instance and compiles the result.
func CompileDir(dir string) (*ast.Module, error) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", formatCUEError(inst.Err))
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", formatCUEError(err))
	}
	return CompileModule(value)
}

// Compile compiles path, which may be a .cue file or a directory.
func Compile(path string) (*ast.Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return CompileDir(path)
	}
	if filepath.Ext(path) != ".cue" {
		return nil, fmt.Errorf("not a .cue file: %s", path)
	}
	return CompileFile(path)
}
