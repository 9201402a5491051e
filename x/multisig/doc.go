/*
Package multisig implements an M-of-N approval wallet: a registry of
owner addresses guarding a ledger of proposed value transfers.

The owner registry is a singleton. It is established exactly once, either
from the genesis file or through InitializeMsg, and names an ordered list
of distinct owners together with a fixed approval threshold. The owner at
index zero is the controlling owner and is the only principal allowed to
add, remove or replace owners.

Every owner may submit a transaction and vote on transactions submitted
by others. Approvals and rejections are independent counters racing
toward the same threshold; whichever crosses first settles the
transaction. An approved transaction is executed once, by its creator
only, moving the requested amount from the wallet's holding account to
the destination.

All wallet state is reachable through the Controller only. Reads are
restricted to owners, so no bucket of this package is registered on the
query router where raw key access would bypass that gate.
*/
package multisig
