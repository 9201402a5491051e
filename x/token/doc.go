/*
Package token implements issued tokens: currencies created at run time,
with per address balances and third party spending allowances.

A token is created once under a unique ticker and its whole supply is
credited to the issuer. Holders transfer balances directly or grant a
spender an allowance, a bounded amount the spender may move on their
behalf. An allowance is set with overwrite semantics and every use of it
shrinks the remainder.
*/
package token
