// Package check lints the output of an integration action after it runs.
//
// A Rule is a named, stateless unit of validation: ShouldRun decides whether
// it applies to an invocation and Run returns zero or more messages. Rules
// never fail by themselves; the Runner collects every message from every
// applicable rule and reports them together as one *CheckError.
//
// # Registry
//
// Rules are grouped by action kind in a static table. Within a kind they run
// in table order, which is also the order messages appear in the error:
//
//	create            createIsObject
//	search            searchIsArray, searchIsObject
//	trigger           triggerIsArray, triggerIsObject, triggerHasId, triggerHasUniquePrimary
//	firehose-webhook  firehoseSubscriptionIsArray, firehoseSubscriptionKeyIsString
//
// # Empty and malformed results
//
// Shape rules (the *IsArray and createIsObject rules) judge only the container.
// An empty array is always a valid array. Entry rules pass vacuously over zero
// entries, and pass over results that are not arrays at all, since the shape
// rule for that kind already reports it. Each entry rule states which entries
// it flags and which it skips:
//
//   - triggerIsObject, searchIsObject: flag the first non-object entry
//   - triggerHasId: flag the first entry that is not an object with a non-null id
//   - triggerHasUniquePrimary: skip non-object entries entirely
//   - firehoseSubscriptionKeyIsString: flag the first non-string entry
//
// # Skipping
//
// Bundle.SkipChecks names rules to leave out of a single invocation, by name
// or alias. A skipped rule never runs, whatever its ShouldRun would say.
package check
