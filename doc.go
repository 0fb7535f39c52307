// Package cohort matches entities against cohort rules.
//
// An entity is a record describing one individual: a name, an age, a country,
// a zip code and a list of email addresses. A cohort rule maps entity fields
// to predicate specifications:
//
//	first_name, last_name, country, zip_code   exact, case-sensitive match
//	age                                        integer interval, e.g. (15,45]
//	emails                                     email domain, e.g. gmail.com
//
// An entity belongs to a cohort if it satisfies every predicate in the rule.
// A rule without predicates matches every entity.
//
// Typical use is as follows:
//
//  1. Load entities and rules, for example with the source package
//  2. Create a Store holding them
//  3. Create an Engine for the store, optionally with a different Evaluator
//  4. Call FindCohorts to get the cohorts an entity belongs to
//  5. Call UpsertCohort to add or replace rules at any time
//
// # Rule Text
//
// Rules are written as tab-separated key:value tokens, one of which must be
// the cohort identifier:
//
//	cohort:5	last_name:Jackson	age:(18,26)
//
// Rule field names are not checked when a rule is added. A rule referring to
// a field that is not in the schema is stored, but matching fails with
// ErrUnrecognizedField when the rule is evaluated. Interval specifications,
// on the other hand, are parsed when the rule is added, and a malformed
// interval is rejected with ErrMalformedPredicate.
//
// # Concurrency
//
// FindCohorts, Explain, UpsertCohort and DeleteCohort may be called
// concurrently. Updates are serialized, and each match works on a consistent
// snapshot of the rules taken when it starts.
package cohort
