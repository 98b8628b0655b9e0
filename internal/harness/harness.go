package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/loomlang/loom/internal/compiler"
	"github.com/loomlang/loom/internal/jsparse"
)

// Scenario is one end-to-end compilation fixture: the template source and
// the compiler options it runs under.
type Scenario struct {
	Name    string
	Source  string
	Options compiler.Options
}

// Result carries the generated render function for a scenario.
type Result struct {
	Output string
}

// Run compiles the scenario and verifies the output parses as JavaScript.
// The syntax check catches emission bugs (unbalanced brackets, misplaced
// commas) independently of any golden comparison.
func Run(s *Scenario) (*Result, error) {
	out, err := compiler.CompileString(s.Source, s.Options)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if err := jsparse.CheckSyntax("(function(){" + out + "})"); err != nil {
		return nil, fmt.Errorf("scenario %s: generated code does not parse: %w", s.Name, err)
	}
	return &Result{Output: out}, nil
}

// RunWithGolden executes a scenario and compares the generated render
// function against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for expected codegen output; review
// diffs to them like code.
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, []byte(result.Output))
	return nil
}
