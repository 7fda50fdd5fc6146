// Package main запускает multichecker.
//
// Он включает:
// - стандартные анализаторы go/analysis/passes
// - все SA-анализаторы staticcheck
// - не-SA анализаторы S1000 и U1000
// - публичный анализатор bodyclose
// - собственные анализаторы noexit (запрещает os.Exit в main) и
//   defaultclient (запрещает http.Get и http.DefaultClient вне тестов)
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/ResearchAggregator/cmd/staticlint/defaultclient"
	"github.com/Totarae/ResearchAggregator/cmd/staticlint/noexit"
)

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		shadow.Analyzer,
		structtag.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
	}

	// SA-анализаторы
	for _, a := range staticcheck.Analyzers {
		if a.Analyzer.Name[:2] == "SA" {
			list = append(list, a.Analyzer)
		}
	}

	// не-SA: S1000 из simple, U1000 из unused
	for _, a := range simple.Analyzers {
		if a.Analyzer.Name == "S1000" {
			list = append(list, a.Analyzer)
		}
	}
	list = append(list, unused.Analyzer.Analyzer)

	list = append(list,
		bodyclose.Analyzer,
		noexit.Analyzer,
		defaultclient.Analyzer,
	)
	return list
}
