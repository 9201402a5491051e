package vault

import (
	"strconv"
	"strings"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/orm"
)

// Event types emitted by the vault handlers.
const (
	EventVaultCreated   = "VaultCreated"
	EventVaultDeposited = "VaultDeposited"
	EventVaultWithdrawn = "VaultWithdrawn"

	attrID          = "id"
	attrSource      = "source"
	attrBeneficiary = "beneficiary"
	attrCaller      = "caller"
	attrAmount      = "amount"
	attrReleaseAt   = "release_at"
)

func vaultCreatedEvent(id []byte, v *Vault, amount coin.Coin) abacus.Event {
	return abacus.NewEvent(EventVaultCreated,
		attrID, vaultIDValue(id),
		attrSource, v.Source.String(),
		attrBeneficiary, v.Beneficiary.String(),
		attrAmount, amount.String(),
		attrReleaseAt, strconv.FormatInt(int64(v.ReleaseAt), 10),
	)
}

func vaultDepositedEvent(id []byte, caller abacus.Address, amount coin.Coin) abacus.Event {
	return abacus.NewEvent(EventVaultDeposited,
		attrID, vaultIDValue(id),
		attrCaller, caller.String(),
		attrAmount, amount.String(),
	)
}

func vaultWithdrawnEvent(id []byte, caller abacus.Address, amount coin.Coins) abacus.Event {
	return abacus.NewEvent(EventVaultWithdrawn,
		attrID, vaultIDValue(id),
		attrCaller, caller.String(),
		attrAmount, coinsValue(amount),
	)
}

// vaultIDValue renders a vault id the way it was issued, as a decimal
// counter starting with zero.
func vaultIDValue(id []byte) string {
	return strconv.FormatInt(orm.DecodeSequence(id), 10)
}

func coinsValue(cs coin.Coins) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}
