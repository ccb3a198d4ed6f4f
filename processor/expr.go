package processor

import (
	"fmt"
	"math"

	goeval "github.com/edisonguo/govaluate"

	"github.com/nci/floodcube/raster"
)

// IndexExpression is a parsed band-math formula evaluated per cell
// over a set of named band grids. It generalises ComputeIndex to
// operator-supplied formulas such as "(green - nir) / (green + nir)".
type IndexExpression struct {
	Formula string

	expr      *goeval.EvaluableExpression
	variables []string
}

// NewIndexExpression parses formula and validates that every variable
// it references is one of the supplied band names.
func NewIndexExpression(formula string, bands []string) (*IndexExpression, error) {
	expr, err := goeval.NewEvaluableExpression(formula)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index expression %q: %v", formula, err)
	}

	validVariables := make(map[string]struct{})
	for _, b := range bands {
		validVariables[b] = struct{}{}
	}

	var variables []string
	seen := make(map[string]struct{})
	for _, token := range expr.Tokens() {
		if token.Kind != goeval.VARIABLE {
			continue
		}
		varName, ok := token.Value.(string)
		if !ok {
			return nil, fmt.Errorf("variable token '%v' failed to cast string", token.Value)
		}
		if _, found := validVariables[varName]; !found {
			return nil, fmt.Errorf("band %v is not supported by expression %q. Valid bands are %v", varName, formula, bands)
		}
		if _, dup := seen[varName]; !dup {
			seen[varName] = struct{}{}
			variables = append(variables, varName)
		}
	}
	if len(variables) == 0 {
		return nil, fmt.Errorf("index expression %q references no bands", formula)
	}

	return &IndexExpression{Formula: formula, expr: expr, variables: variables}, nil
}

// Variables returns the band names the expression references.
func (ie *IndexExpression) Variables() []string {
	out := make([]string, len(ie.variables))
	copy(out, ie.variables)
	return out
}

// Compute evaluates the expression cell by cell over the named band
// grids. An output cell is no-data when any referenced band is invalid
// at that cell or when the evaluation result is not finite, so
// division singularities degrade to no-data rather than NaN.
func (ie *IndexExpression) Compute(bands map[string]*raster.FloatGrid, noData float64) (*raster.FloatGrid, error) {
	grids := make([]*raster.FloatGrid, len(ie.variables))
	for iv, name := range ie.variables {
		g, found := bands[name]
		if !found {
			return nil, fmt.Errorf("expression %q: no grid supplied for band %v", ie.Formula, name)
		}
		grids[iv] = g
	}
	for _, g := range grids[1:] {
		if !g.Spec.Equal(grids[0].Spec) {
			return nil, fmt.Errorf("expression %q band grids: %w", ie.Formula, raster.ErrShapeMismatch)
		}
	}

	out := raster.NewFloatGrid(grids[0].Spec, noData)
	params := make(map[string]interface{}, len(ie.variables))

cells:
	for i := range out.Data {
		for iv, g := range grids {
			if !g.Valid(i) {
				continue cells
			}
			params[ie.variables[iv]] = float64(g.Data[i])
		}

		result, err := ie.expr.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("expression %q evaluation: %v", ie.Formula, err)
		}
		res, ok := result.(float32)
		if !ok {
			return nil, fmt.Errorf("expression %q is not numeric: got %v", ie.Formula, result)
		}
		val := float64(res)
		if math.IsNaN(val) || math.IsInf(val, 0) {
			continue
		}
		out.Data[i] = float32(val)
	}
	return out, nil
}
