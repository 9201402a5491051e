/*
Package std assembles the modules of this repository into a runnable
application.

It provides the standard transaction envelope, the codec that knows every
module message, the decorator chain and router wiring, and a constructor
that returns a ready ledger. Programs that need a different composition can
use this package as a template and swap individual pieces.
*/
package std
