/*

Package abacus defines the interfaces used throughout the engine: storage,
transactions, handlers, results and events. It also contains helpers to work
with addresses, context and time.
Look into this package to get a brief overview of the design decisions made
around interfaces and extension building blocks. The actual ledger logic
lives in the x/ packages, the execution engine in app.

*/

package abacus
