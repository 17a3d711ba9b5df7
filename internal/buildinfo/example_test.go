package buildinfo_test

import (
	"fmt"
	"os"

	"github.com/InQaaaaGit/icd_search/internal/buildinfo"
)

// ExampleNewInfo демонстрирует создание информации о сборке из значений -ldflags
func ExampleNewInfo() {
	info := buildinfo.NewInfo("v1.2.0", "", "")
	info.Print(os.Stdout)

	// Output:
	// Build version: v1.2.0
	// Build date: N/A
	// Build commit: N/A
}

// ExampleInfo_String демонстрирует получение строкового представления информации о сборке
func ExampleInfo_String() {
	info := buildinfo.NewInfo("v1.0.0", "2024-01-01", "abc123")
	fmt.Println(info.String())

	// Output:
	// Version: v1.0.0, Date: 2024-01-01, Commit: abc123
}
