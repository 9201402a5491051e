package cash

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

// BucketName is the namespace all balances are stored under.
const BucketName = "cash"

func init() {
	migration.MustRegister(1, &Set{}, migration.NoModification)
}

var _ orm.CloneableData = (*Set)(nil)
var _ migration.Migratable = (*Set)(nil)

// Set is the balance of an account, stored under the account address.
type Set struct {
	Metadata *abacus.Metadata
	Coins    []*coin.Coin
}

func (s *Set) GetMetadata() *abacus.Metadata {
	return s.Metadata
}

// GetCoins returns the coins stored in the set
func (s *Set) GetCoins() []*coin.Coin {
	if s == nil {
		return nil
	}
	return s.Coins
}

// SetCoins overwrites the coins stored in the set
func (s *Set) SetCoins(coins []*coin.Coin) {
	s.Coins = coins
}

// Validate requires a sorted listing of well formed coins.
func (s *Set) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	errs = errors.AppendField(errs, "Coins", coin.Coins(s.Coins).Validate())
	return errs
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    coin.Coins(s.Coins).Clone(),
	}
}

// Marshal encodes the set for storage.
func (s *Set) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal restores the set from storage bytes.
func (s *Set) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, s)
}

// Coinage is any model that allows getting and setting coins,
// the basis for buckets that store sets
type Coinage interface {
	GetCoins() []*coin.Coin
	SetCoins([]*coin.Coin)
}

// AsCoinage will safely type-cast any value from Bucket to Coinage
func AsCoinage(obj orm.Object) Coinage {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	cng, ok := obj.Value().(Coinage)
	if !ok {
		return nil
	}
	return cng
}

// AsCoins safely extracts the Coins from any object
func AsCoins(obj orm.Object) coin.Coins {
	cng := AsCoinage(obj)
	if cng == nil {
		return nil
	}
	return coin.Coins(cng.GetCoins())
}

// Add merges c into the stored listing.
func Add(cng Coinage, c coin.Coin) error {
	cs, err := coin.Coins(cng.GetCoins()).Add(c)
	if err != nil {
		return err
	}
	cng.SetCoins(cs)
	return nil
}

// Subtract removes c from the stored listing.
func Subtract(cng Coinage, c coin.Coin) error {
	return Add(cng, c.Negative())
}

// Concat merges a whole listing of coins into the coinage, keeping the
// stored listing sorted with no duplicate or zero entries.
func Concat(cng Coinage, coins coin.Coins) error {
	joint, err := coin.Coins(cng.GetCoins()).Combine(coins)
	if err != nil {
		return err
	}
	cng.SetCoins(joint)
	return nil
}

// NewWallet returns a wallet object with no funds, keyed by the
// account address.
func NewWallet(key abacus.Address) orm.Object {
	return orm.NewSimpleObj(key, &Set{
		Metadata: &abacus.Metadata{Schema: 1},
	})
}

// WalletWith creates a wallet with an initial balance
func WalletWith(key abacus.Address, coins ...*coin.Coin) (orm.Object, error) {
	obj := NewWallet(key)
	err := Concat(AsCoinage(obj), coins)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// WalletBucket is what we expect to be able to do with wallets.
// The objects it returns must hold a Set value, which is checked only
// at runtime.
type WalletBucket interface {
	GetOrCreate(db abacus.KVStore, key abacus.Address) (orm.Object, error)
	Get(db abacus.ReadOnlyKVStore, key []byte) (orm.Object, error)
	Save(db abacus.KVStore, obj orm.Object) error
}

// Bucket stores wallets keyed by account address.
type Bucket struct {
	migration.Bucket
}

var _ WalletBucket = Bucket{}

// NewBucket sets up the standard wallet bucket.
func NewBucket() Bucket {
	return Bucket{
		Bucket: migration.NewBucket("cash", BucketName, NewWallet(nil)),
	}
}

// GetOrCreate will return the object if found, or create one
// if not.
func (b Bucket) GetOrCreate(db abacus.KVStore, key abacus.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}
