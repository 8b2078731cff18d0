// Package fileperm provides a linter that flags hardcoded file permission literals.
package fileperm

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports octal permission literals passed to file-creating calls
// where a pkg/fileutil constant should be used.
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of fileutil constants",
	Run:  run,
}

// permArgIndex maps call names to the index of their permission argument.
var permArgIndex = map[string]int{
	"WriteFile":       2,
	"WriteFileAtomic": 3,
	"MkdirAll":        1,
	"Mkdir":           1,
	"Chmod":           1,
	"OpenFile":        2,
}

// permConstants maps permission values to the fileutil constant to suggest.
var permConstants = map[int64]string{
	0o644: "fileutil.ReadWriteUserReadOthers",
	0o755: "fileutil.ReadWriteExecuteUserReadExecuteOthers",
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			idx, ok := permArgIndex[calleeName(call)]
			if !ok || len(call.Args) <= idx {
				return true
			}
			lit, ok := call.Args[idx].(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				return true
			}
			value, err := strconv.ParseInt(lit.Value, 0, 64)
			if err != nil {
				return true
			}
			if constant, known := permConstants[value]; known {
				pass.Reportf(lit.Pos(), "use %s instead of hardcoded %s", constant, lit.Value)
			}
			return true
		})
	}
	return nil, nil
}

// calleeName returns the selector or identifier name of the called function.
func calleeName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fun.Sel.Name
	case *ast.Ident:
		return fun.Name
	}
	return ""
}
