/*
Package property implements a land deed registry.

A deed ties a unique parcel reference to an owner. The owner can offer
the deed for sale at an asked price, give it away, or withdraw an offer.
Anyone else can buy an offered deed by paying the asked price to the
owner through the cash module, which moves the title and clears the
offer in the same transaction.
*/
package property
