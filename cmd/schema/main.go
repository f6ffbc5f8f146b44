// Package main generates the JSON schemas under docs/.
package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/codetree/pkg/utils/schema"
)

//go:generate go run github.com/yeisme/codetree/cmd/schema
func main() {
	const docs = "../../docs"
	if err := os.MkdirAll(docs, 0o755); err != nil {
		panic(err)
	}

	for name, gen := range map[string]func(io.Writer) error{
		"report_schema.json": schema.GenReportSchema,
		"config_schema.json": schema.GenConfigSchema,
	} {
		if err := writeSchema(filepath.Join(docs, name), gen); err != nil {
			panic(err)
		}
	}
}

func writeSchema(path string, gen func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gen(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
