package executor

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/model"
)

// runTabular resolves the table file, applies the optional row filter, and
// projects the target column. The read runs on the deadline-bounded worker
// like any other source, so a stalled filesystem cannot hold the cascade past
// the execution budget. Relative paths resolve against the directory of the
// declaring form file; that resolution is the executor's responsibility, not
// the caller's.
func (e *Executor) runTabular(ctx context.Context, spec *model.ParameterSpec, snap map[string]cty.Value) ([]any, time.Duration, error) {
	logger := ctxlog.FromContext(ctx).With("parameter", spec.Name, "kind", "tabular")
	diag := displayInputs(snap)

	values, elapsed, err := e.bounded(ctx, spec, diag, func(context.Context) ([]any, error) {
		return projectTable(spec, snap, diag, logger)
	})
	if err != nil {
		return nil, elapsed, err
	}
	logger.Debug("Tabular source finished.", "rows", len(values), "elapsed", elapsed)
	return values, elapsed, nil
}

// projectTable does the actual table work: locate, read, filter, project.
func projectTable(spec *model.ParameterSpec, snap map[string]cty.Value, diag map[string]string, logger *slog.Logger) ([]any, error) {
	path, candidates := resolveTablePath(spec)
	if path == "" {
		return nil, &SourceNotFoundError{Parameter: spec.Name, Candidates: candidates}
	}

	records, err := readTable(path)
	if err != nil {
		return nil, &ExecError{Parameter: spec.Name, Inputs: diag, Cause: err}
	}
	if len(records) == 0 {
		logger.Warn("Table is empty.", "path", path)
		return nil, nil
	}

	header := records[0]
	colIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), spec.TableColumn) {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return nil, &SchemaError{
			Parameter: spec.Name,
			Column:    spec.TableColumn,
			Available: header,
		}
	}

	paramVars := paramObject(spec, snap)

	var values []any
	for _, record := range records[1:] {
		if spec.RowFilter != nil {
			keep, err := evalRowFilter(spec.RowFilter, header, record, paramVars)
			if err != nil {
				return nil, &ExecError{Parameter: spec.Name, Inputs: diag, Cause: err}
			}
			if !keep {
				continue
			}
		}
		if colIdx < len(record) {
			values = append(values, record[colIdx])
		}
	}

	if len(values) == 0 {
		// Not an error: a filter that matches nothing is a legitimate outcome.
		logger.Warn("Tabular source produced no rows after filtering.", "path", path)
	}
	return values, nil
}

// resolveTablePath returns the first existing candidate path and the full
// candidate list for diagnostics. An empty path means nothing was found.
func resolveTablePath(spec *model.ParameterSpec) (string, []string) {
	var candidates []string
	if filepath.IsAbs(spec.TablePath) {
		candidates = []string{filepath.Clean(spec.TablePath)}
	} else {
		candidates = []string{
			filepath.Join(spec.BaseDir, spec.TablePath),
			filepath.Clean(spec.TablePath),
		}
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, candidates
		}
	}
	return "", candidates
}

// readTable loads the whole CSV file, header row included.
func readTable(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, projection guards the index
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// paramObject builds the `param.*` variables for filter evaluation. Declared
// dependencies with no snapshot value bind as null so comparisons against
// them evaluate to false instead of failing.
func paramObject(spec *model.ParameterSpec, snap map[string]cty.Value) cty.Value {
	attrs := make(map[string]cty.Value, len(spec.DependsOn))
	for _, dep := range spec.DependsOn {
		key := strings.ToLower(dep)
		if v, ok := snap[key]; ok {
			attrs[key] = v
		} else {
			attrs[key] = cty.NullVal(cty.String)
		}
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}

// evalRowFilter evaluates the predicate against one row. The row's fields are
// exposed as `row.<column>` string values.
func evalRowFilter(filter hcl.Expression, header, record []string, paramVars cty.Value) (bool, error) {
	fields := make(map[string]cty.Value, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if name == "" {
			continue
		}
		if i < len(record) {
			fields[name] = cty.StringVal(record[i])
		} else {
			fields[name] = cty.NullVal(cty.String)
		}
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"row":   cty.ObjectVal(fields),
			"param": paramVars,
		},
	}

	val, diags := filter.Value(evalCtx)
	if diags.HasErrors() {
		return false, diags
	}
	if val.IsNull() {
		return false, nil
	}
	boolVal, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, err
	}
	return boolVal.True(), nil
}
