// Package lang interprets the statements that assign environment variables
// and options.
//
// A let statement names its target with a sigil and assigns it with one of
// four operators:
//
//	$NAME    = expr    environment variable
//	&name   .= expr    option, local copy if any and then global
//	&g:name += expr    global option only
//	&l:name -= expr    local option only
//
// The right-hand side is evaluated by an [Evaluator] and converted to text
// with [Stringify]. Environment variables may be assigned or appended to.
// String options may be assigned or appended to; other non-boolean options
// may be assigned, added to, or subtracted from. Boolean options are never
// assignable with let.
//
// An unlet statement lists environment variables to unset:
//
//	$NAME [$NAME ...]
//
// Every environment variable touched is tracked in a [Registry]. Variables
// inherited from the process environment are restored to their initial
// values by [Registry.Teardown], and all others are unset.
//
// Failures are reported as [Error] values derived from the sentinels of this
// package, each carrying a [Category] and, for parse failures, the offset
// into the statement where it was detected.
package lang
