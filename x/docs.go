/*
Package x holds the extensions an application is assembled from.

Every sub-package bundles one piece of business logic as a set of messages,
models and handlers. None of them is required by the framework itself. Wire
the ones the application needs into its router and leave the rest out, or
write your own extension next to them.

Exported identifiers are read together with the package name, so keep them
free of stutter. Use vault.CreateMsg rather than vault.CreateVaultMsg.
*/
package x
