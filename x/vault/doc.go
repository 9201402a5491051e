/*
Package vault implements time-locked escrow vaults.

A vault is created by a source principal who locks funds for a
beneficiary until a release time. The funds live on the cash account of
a vault condition address derived from the vault id, so the vault record
itself never carries a balance. Anyone may top the vault up while it
exists. Once the release time has passed the beneficiary, and nobody
else, withdraws any part of the balance. A vault drained to zero is
deleted.
*/
package vault
