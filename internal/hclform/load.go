package hclform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/fsutil"
	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/schema"
)

// Load finds, parses, and merges all .hcl form files under formPath into an
// ordered list of parameter specs. File discovery order is stable (sorted
// paths) and in-file declaration order is preserved, so registration order,
// and with it the resolved execution order, is deterministic across runs.
func Load(ctx context.Context, formPath string) ([]*model.ParameterSpec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading form definitions.", "path", formPath)

	files, err := fsutil.FindFilesByExtension(formPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve form path %q: %w", formPath, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl form files found at the specified path.", "path", formPath)
		return nil, nil
	}

	var specs []*model.ParameterSpec
	parser := hclparse.NewParser()
	for _, file := range files {
		fileSpecs, err := decodeFormFile(ctx, parser, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load form file %q: %w", file, err)
		}
		specs = append(specs, fileSpecs...)
	}

	logger.Info("Form definitions loaded.", "files", len(files), "parameters", len(specs))
	return specs, nil
}

// decodeFormFile parses a single form file and translates its param blocks.
func decodeFormFile(ctx context.Context, parser *hclparse.Parser, path string) ([]*model.ParameterSpec, error) {
	logger := ctxlog.FromContext(ctx)

	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse error: %w", diags)
	}

	var cfg schema.FormConfig
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode error: %w", diags)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve directory of %q: %w", path, err)
	}

	specs := make([]*model.ParameterSpec, 0, len(cfg.Params))
	for _, p := range cfg.Params {
		spec, err := translateParam(p, baseDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Decoded parameter.", "name", spec.Name, "kind", spec.Kind.String(), "depends_on", spec.DependsOn)
		specs = append(specs, spec)
	}
	return specs, nil
}

// translateParam converts the HCL-specific param schema into the agnostic model.
func translateParam(p *schema.Param, baseDir string) (*model.ParameterSpec, error) {
	if p.Script != nil && p.Table != nil {
		return nil, fmt.Errorf("parameter %q declares both a script and a table source", p.Name)
	}

	spec := &model.ParameterSpec{
		Name:          p.Name,
		Label:         p.Label,
		Default:       p.Default,
		StaticChoices: p.Choices,
		DependsOn:     p.DependsOn,
		Kind:          model.SourceNone,
		BaseDir:       baseDir,
	}

	switch {
	case p.Script != nil:
		spec.Kind = model.SourceComputed
		spec.Script = p.Script.Command
	case p.Table != nil:
		spec.Kind = model.SourceTabular
		spec.TablePath = p.Table.Path
		spec.TableColumn = p.Table.Column
		spec.RowFilter = filterOrNil(p.Table.Filter)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// filterOrNil normalizes an absent optional filter attribute to nil. gohcl
// hands back a static null expression for missing hcl.Expression fields, and
// the executor treats nil as "no filter".
func filterOrNil(expr hcl.Expression) hcl.Expression {
	if expr == nil {
		return nil
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
		return nil
	}
	return expr
}
