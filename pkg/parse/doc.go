// Package parse turns raw fetched content into typed numeric observations.
//
// The collectors deal with three content shapes:
//   - line-oriented command output, one queue name and depth per line
//     (QueueLines)
//   - HTML status pages containing one or more tables, located by a text
//     marker (Tables, FindTable)
//   - env-style KEY=value configuration files (EnvFile)
//
// Number is the shared numeric tolerance layer: it accepts thousands
// separators, percent signs and trailing unit suffixes, and rejects anything
// else without panicking. All parsers follow the partial-extraction policy:
// a malformed line or unrecognized table row is skipped with a warning, and
// an otherwise well-formed input that yields no metrics is an empty result,
// not an error. ErrParse marks content that was fetched successfully but is
// not in the expected shape at all.
package parse
