// Package defaultclient запрещает исходящие запросы через пакетные
// функции net/http и http.DefaultClient вне тестов: у них нет таймаута.
package defaultclient

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var Analyzer = &analysis.Analyzer{
	Name:     "defaultclient",
	Doc:      "запрещает http.Get, http.Post, http.Head, http.PostForm и http.DefaultClient вне тестов",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var forbidden = map[string]bool{
	"net/http.Get":           true,
	"net/http.Post":          true,
	"net/http.Head":          true,
	"net/http.PostForm":      true,
	"net/http.DefaultClient": true,
}

func run(pass *analysis.Pass) (any, error) {
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	ins.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel := n.(*ast.SelectorExpr)
		if isTestFile(pass, sel) {
			return
		}
		obj := pass.TypesInfo.Uses[sel.Sel]
		if obj == nil || obj.Pkg() == nil || obj.Pkg().Path() != "net/http" {
			return
		}
		// Только объекты уровня пакета: методы (*http.Client).Get разрешены.
		if obj.Pkg().Scope().Lookup(obj.Name()) != obj {
			return
		}
		name := obj.Pkg().Path() + "." + obj.Name()
		if forbidden[name] {
			pass.Reportf(sel.Pos(), "%s использует клиент без таймаута; передайте настроенный *http.Client", "http."+obj.Name())
		}
	})
	return nil, nil
}

func isTestFile(pass *analysis.Pass, n ast.Node) bool {
	return strings.HasSuffix(pass.Fset.Position(n.Pos()).Filename, "_test.go")
}
