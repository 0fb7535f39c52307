// Package cel provides an implementation of the cohort.Evaluator interface
// backed by Google's cel-go rules engine.
// See https://github.com/google/cel-go and https://opensource.google/projects/cel for more information
// about CEL.
//
// Each cohort rule is translated to one boolean CEL expression over the
// entity fields. For example, the rule
//
//	cohort:2	age:(15,45]	country:CH	emails:hotmail.com
//
// becomes
//
//	(age > 15 && age <= 45) && country == "CH" &&
//	  emails.exists(m, m.substring(m.indexOf("@") + 1) == "hotmail.com")
//
// The expression is compiled once, when the rule is added to the engine.
// The evaluator gives the same results and errors as the native evaluator;
// it is useful when rules are also consumed by other CEL-based systems, and
// Expr returns the translated expression for inspection.
package cel
