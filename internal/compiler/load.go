package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/tilewave/internal/ir"
)

// LoadFile builds the CUE value of a single .cue file, or of the package
// formed by the .cue files of a directory.
func LoadFile(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{"./" + filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("load %s: no CUE instances", path)
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, formatCUEError(err)
	}

	v := cuecontext.New().BuildInstance(instances[0])
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// CompileCatalogs compiles every tileset.<name> block of v, sorted by name.
func CompileCatalogs(v cue.Value) ([]*ir.Catalog, error) {
	tilesets := v.LookupPath(cue.ParsePath("tileset"))
	if !tilesets.Exists() {
		return nil, &CompileError{Field: "tileset", Message: "no tileset declared", Pos: v.Pos()}
	}
	iter, err := tilesets.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var cats []*ir.Catalog
	for iter.Next() {
		cat, err := CompileCatalog(iter.Value())
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

// SelectCatalog returns the catalog called name. An empty name selects the
// only catalog, and is an error when there are several.
func SelectCatalog(cats []*ir.Catalog, name string) (*ir.Catalog, error) {
	if name == "" {
		if len(cats) == 1 {
			return cats[0], nil
		}
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = c.Name
		}
		return nil, fmt.Errorf("several tilesets declared (%s); pick one by name", strings.Join(names, ", "))
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("tileset %q not declared", name)
}

// ValidationErrors is the collected result of Validate, returned as an error.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// LoadTileset loads a catalog file, validates the chosen catalog and
// compiles it. Validation failures come back as ValidationErrors.
func LoadTileset(path, name string) (*ir.Catalog, *ir.Tileset, error) {
	v, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	cats, err := CompileCatalogs(v)
	if err != nil {
		return nil, nil, err
	}
	cat, err := SelectCatalog(cats, name)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if errs := Validate(cat); len(errs) > 0 {
		return cat, nil, ValidationErrors(errs)
	}
	ts, err := CompileTileset(cat)
	if err != nil {
		return cat, nil, err
	}
	return cat, ts, nil
}
