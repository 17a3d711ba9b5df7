package main

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// DefaultClientAnalyzer запрещает http.DefaultClient и функции-обёртки над ним.
// Исходящие запросы должны идти через клиента с настроенным таймаутом.
var DefaultClientAnalyzer = &analysis.Analyzer{
	Name:     "defaultclient",
	Doc:      "prohibits net/http DefaultClient and package-level Get/Head/Post/PostForm helpers",
	Run:      runDefaultClientCheck,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

var defaultClientHelpers = map[string]bool{
	"Get":      true,
	"Head":     true,
	"Post":     true,
	"PostForm": true,
}

func runDefaultClientCheck(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(node ast.Node) {
		sel := node.(*ast.SelectorExpr)
		if !isPkgIdent(pass, sel.X, "net/http") {
			return
		}

		switch {
		case sel.Sel.Name == "DefaultClient":
			pass.Reportf(sel.Pos(), "http.DefaultClient has no timeout, use a configured *http.Client")
		case defaultClientHelpers[sel.Sel.Name]:
			pass.Reportf(sel.Pos(), "http.%s uses http.DefaultClient, use a configured *http.Client", sel.Sel.Name)
		}
	})

	return nil, nil
}
