// Package validate checks incoming statement payloads against the embedded
// CUE schema before they reach the transformation pipeline.
package validate

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed statement.cue
var schemaSource string

// Validator holds the compiled statement schema. Construct once and reuse;
// cue.Value is immutable and safe for concurrent Unify.
type Validator struct {
	ctx       *cue.Context
	statement cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("statement.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile statement schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Statement"))
	if !def.Exists() {
		return nil, fmt.Errorf("statement schema: #Statement definition not found")
	}

	return &Validator{ctx: ctx, statement: def}, nil
}

// ValidateStatement unifies one decoded payload with the schema and reports
// the first structural violation.
func (v *Validator) ValidateStatement(payload map[string]any) error {
	val := v.ctx.Encode(payload)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode statement payload: %w", err)
	}

	// The encoded payload is fully concrete, so any remaining non-concrete
	// field means a required schema field the payload never supplied.
	unified := v.statement.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("statement failed validation: %w", cueerrors.Sanitize(cueerrors.Promote(err, "")))
	}
	return nil
}
