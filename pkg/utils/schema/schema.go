// Package schema provides utilities for working with JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/yeisme/codetree/pkg/configs"
	"github.com/yeisme/codetree/pkg/models"
)

// SchemaID 报告 schema 的标识
const SchemaID = "https://github.com/yeisme/codetree/schemas/report.json"

// ReportSchema 返回 JSON 报告的 schema，字段名取自 json 标签
func ReportSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
	s := reflector.Reflect(&models.Report{})
	s.ID = SchemaID
	s.Title = "codetree report"
	s.Description = "Canonical JSON form of a codetree project analysis."
	return s
}

// ConfigSchema 返回配置文件的 schema，字段名取自 mapstructure 标签
func ConfigSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "mapstructure",
	}
	return reflector.Reflect(configs.Config{})
}

// GenReportSchema generates the JSON schema for the report and writes it to the provided writer.
func GenReportSchema(out io.Writer) error {
	return write(out, ReportSchema())
}

// GenConfigSchema generates the JSON schema for the entire application configuration and writes it to the provided writer.
func GenConfigSchema(out io.Writer) error {
	return write(out, ConfigSchema())
}

func write(out io.Writer, s *jsonschema.Schema) error {
	schemaJSON, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(schemaJSON))
	return err
}
