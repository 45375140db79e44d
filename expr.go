package xlbudget

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// markerEnv is the environment a marker expression is evaluated against.
type markerEnv struct {
	Text   string `expr:"text"`   // trimmed cell text
	Row    int    `expr:"row"`    // 1-based row number
	Col    int    `expr:"col"`    // 1-based column number
	Column string `expr:"column"` // column letters, e.g. "A"
}

// programCache keeps compiled marker expressions keyed by source.
var programCache sync.Map // expression string → compiled *vm.Program

// CompileMarkerExpr compiles a boolean marker expression such as
//
//	text contains "Jumlah" && column == "A"
//
// The variables text, row, col and column are available. Compiled programs are
// cached, so compiling the same source twice is cheap.
func CompileMarkerExpr(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("compile marker expression: empty expression")
	}
	if cached, ok := programCache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(markerEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile marker expression %q: %w", expression, err)
	}
	programCache.Store(expression, program)
	return program, nil
}

func runMarkerExpr(program *vm.Program, env markerEnv) (bool, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate marker expression: %w", err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("marker expression evaluated to %T, expected bool", out)
	}
	return b, nil
}
