/*

Package gconf keeps a per package configuration singleton inside the database.

The configuration is loaded from the genesis and can be patched at runtime
through an owner guarded message. Use Load to read it back.

A missing or broken configuration leaves the application without a recovery
path, it must be terminated and configured correctly. Helpers that load a
required configuration therefore panic instead of returning an error.

*/
package gconf
