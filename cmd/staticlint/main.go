// Command staticlint запускает набор статических анализаторов для проекта.
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
//
// В набор входят стандартные анализаторы golang.org/x/tools, анализаторы
// staticcheck (SA, S, ST), go-critic, errcheck и собственные анализаторы:
//   - osexit запрещает прямой вызов os.Exit в функции main пакета main;
//   - defaultclient запрещает http.DefaultClient и http.Get/Post/Head/PostForm,
//     так как у них нет таймаута на исходящие запросы.
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"

	// Стандартные анализаторы из golang.org/x/tools/go/analysis/passes
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"

	// Анализаторы staticcheck.io
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	// Публичные анализаторы
	"github.com/go-critic/go-critic/checkers/analyzer"
	"github.com/kisielk/errcheck/errcheck"
)

func main() {
	multichecker.Main(analyzers()...)
}

// analyzers собирает полный список анализаторов
func analyzers() []*analysis.Analyzer {
	checks := []*analysis.Analyzer{
		// Собственные анализаторы
		OsExitAnalyzer,
		DefaultClientAnalyzer,

		// Стандартные анализаторы
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		buildtag.Analyzer,
		composite.Analyzer,
		copylock.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		nilfunc.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		stdmethods.Analyzer,
		structtag.Analyzer,
		tests.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,
		unusedresult.Analyzer,

		// Публичные анализаторы
		analyzer.Analyzer, // go-critic
		errcheck.Analyzer, // errcheck
	}

	// Все SA из staticcheck, стиль (ST) и упрощения (S)
	checks = appendLint(checks, staticcheck.Analyzers)
	checks = appendLint(checks, stylecheck.Analyzers)
	checks = appendLint(checks, simple.Analyzers)

	return checks
}

func appendLint(dst []*analysis.Analyzer, src []*lint.Analyzer) []*analysis.Analyzer {
	for _, v := range src {
		dst = append(dst, v.Analyzer)
	}
	return dst
}
