/*
Package cash defines a simple implementation of moving coins
between accounts.

Coins carry no logic of their own. The only rule the package
enforces is that no wallet balance may drop below zero, which is
why it is called cash.

Modules that need to move real value consume the Controller
interface, so richer implementations can be swapped in without
touching them.
*/
package cash
