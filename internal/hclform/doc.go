// Package hclform loads form definition files. It discovers .hcl files under
// a path, decodes their `param` blocks via the schema package, and translates
// them into model.ParameterSpec values in declaration order.
package hclform
