package token

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
)

// Event types emitted by the token handlers.
const (
	EventTokenCreated     = "TokenCreated"
	EventTokenTransferred = "TokenTransferred"
	EventTokenApproved    = "TokenApproved"
)

const (
	attrTicker      = "ticker"
	attrOwner       = "owner"
	attrSource      = "source"
	attrDestination = "destination"
	attrSpender     = "spender"
	attrAmount      = "amount"
)

func tokenCreatedEvent(ticker string, owner abacus.Address, supply coin.Coin) abacus.Event {
	return abacus.NewEvent(EventTokenCreated,
		attrTicker, ticker,
		attrOwner, owner.String(),
		attrAmount, supply.String(),
	)
}

func tokenTransferredEvent(source, destination abacus.Address, amount coin.Coin) abacus.Event {
	return abacus.NewEvent(EventTokenTransferred,
		attrTicker, amount.Ticker,
		attrSource, source.String(),
		attrDestination, destination.String(),
		attrAmount, amount.String(),
	)
}

func tokenApprovedEvent(owner, spender abacus.Address, amount coin.Coin) abacus.Event {
	return abacus.NewEvent(EventTokenApproved,
		attrTicker, amount.Ticker,
		attrOwner, owner.String(),
		attrSpender, spender.String(),
		attrAmount, amount.String(),
	)
}
