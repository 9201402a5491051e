/*
Package errors implements the error handling used across abacus.

The idea is to reuse as many errors from this package as possible and declare
package specific errors only when necessary. Every error is created from a
registered root error, either by wrapping (errors.Wrap) or directly
(ErrXyz.New). The root carries a numeric code that survives wrapping, so
callers can test for a kind with ErrXyz.Is(err) without string matching.

Stack traces are attached at the innermost wrap only. Use fmt verbs to get
more context out of an error:

	%s  the error message
	%v  the message plus a compressed [file:line] of the creation point
	%+v the message plus the full stack trace
*/
package errors
