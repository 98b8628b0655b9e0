// Package harness provides an end-to-end test harness for the compiler.
//
// A Scenario pairs template source with the compiler options it runs under.
// Running a scenario compiles the template, verifies the generated render
// function parses as JavaScript, and optionally compares the output against
// a golden file under testdata/golden.
package harness
