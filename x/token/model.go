package token

import (
	"regexp"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

func init() {
	migration.MustRegister(1, &Token{}, migration.NoModification)
	migration.MustRegister(1, &Balance{}, migration.NoModification)
	migration.MustRegister(1, &Allowance{}, migration.NoModification)
}

const (
	// TokenBucketName is where issued tokens live, keyed by ticker.
	TokenBucketName = "tokens"
	// BalanceBucketName is where holder balances live.
	BalanceBucketName = "tokbal"
	// AllowanceBucketName is where spending allowances live.
	AllowanceBucketName = "tokallow"
)

var isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString

var _ orm.CloneableData = (*Token)(nil)
var _ migration.Migratable = (*Token)(nil)

// Token is one issued currency, stored under its ticker. The owner is the
// principal the initial supply was minted to.
type Token struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Ticker      string           `json:"ticker"`
	Name        string           `json:"name"`
	Owner       abacus.Address   `json:"owner"`
	TotalSupply *coin.Coin       `json:"total_supply"`
}

func (t *Token) GetMetadata() *abacus.Metadata {
	return t.Metadata
}

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if !coin.IsCC(t.Ticker) {
		errs = errors.Append(errs,
			errors.Field("Ticker", coin.ErrInvalidCurrency, "invalid ticker"))
	}
	if !isTokenName(t.Name) {
		errs = errors.Append(errs,
			errors.Field("Name", ErrInvalidTokenName, "invalid name"))
	}
	errs = errors.AppendField(errs, "Owner", t.Owner.Validate())
	if t.TotalSupply == nil {
		errs = errors.Append(errs,
			errors.Field("TotalSupply", errors.ErrEmpty, "no supply"))
	} else {
		if t.TotalSupply.Ticker != t.Ticker {
			errs = errors.Append(errs,
				errors.Field("TotalSupply", coin.ErrInvalidCurrency, "supply ticker mismatch"))
		}
		if !t.TotalSupply.IsNonNegative() {
			errs = errors.Append(errs,
				errors.Field("TotalSupply", errors.ErrInvalidAmount, "negative supply"))
		}
	}
	return errs
}

func (t *Token) Copy() orm.CloneableData {
	return &Token{
		Metadata:    t.Metadata.Copy(),
		Ticker:      t.Ticker,
		Name:        t.Name,
		Owner:       copyAddr(t.Owner),
		TotalSupply: t.TotalSupply.Clone(),
	}
}

func (t *Token) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Token) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, t)
}

var _ orm.CloneableData = (*Balance)(nil)
var _ migration.Migratable = (*Balance)(nil)

// Balance is the amount of one token held by one address. The token is
// named by the amount ticker.
type Balance struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Owner    abacus.Address   `json:"owner"`
	Amount   *coin.Coin       `json:"amount"`
}

func (b *Balance) GetMetadata() *abacus.Metadata {
	return b.Metadata
}

func (b *Balance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", b.Owner.Validate())
	if b.Amount == nil {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrEmpty, "no amount"))
	} else {
		errs = errors.AppendField(errs, "Amount", b.Amount.Validate())
		if !b.Amount.IsNonNegative() {
			errs = errors.Append(errs,
				errors.Field("Amount", errors.ErrInvalidAmount, "negative balance"))
		}
	}
	return errs
}

func (b *Balance) Copy() orm.CloneableData {
	return &Balance{
		Metadata: b.Metadata.Copy(),
		Owner:    copyAddr(b.Owner),
		Amount:   b.Amount.Clone(),
	}
}

func (b *Balance) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *Balance) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, b)
}

var _ orm.CloneableData = (*Allowance)(nil)
var _ migration.Migratable = (*Allowance)(nil)

// Allowance is the remaining amount a spender may move out of the owner
// balance. It is set with overwrite semantics and shrinks with every use.
type Allowance struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Owner    abacus.Address   `json:"owner"`
	Spender  abacus.Address   `json:"spender"`
	Amount   *coin.Coin       `json:"amount"`
}

func (a *Allowance) GetMetadata() *abacus.Metadata {
	return a.Metadata
}

func (a *Allowance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", a.Spender.Validate())
	if a.Amount == nil {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrEmpty, "no amount"))
	} else {
		errs = errors.AppendField(errs, "Amount", a.Amount.Validate())
		if !a.Amount.IsNonNegative() {
			errs = errors.Append(errs,
				errors.Field("Amount", errors.ErrInvalidAmount, "negative allowance"))
		}
	}
	return errs
}

func (a *Allowance) Copy() orm.CloneableData {
	return &Allowance{
		Metadata: a.Metadata.Copy(),
		Owner:    copyAddr(a.Owner),
		Spender:  copyAddr(a.Spender),
		Amount:   a.Amount.Clone(),
	}
}

func (a *Allowance) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Allowance) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, a)
}

func copyAddr(a abacus.Address) abacus.Address {
	if a == nil {
		return nil
	}
	cpy := make(abacus.Address, len(a))
	copy(cpy, a)
	return cpy
}

// balanceKey composes the storage key of a holder balance. The colon
// terminates the variable length ticker, no registered ticker can contain
// it.
func balanceKey(ticker string, owner abacus.Address) []byte {
	key := make([]byte, 0, len(ticker)+1+len(owner))
	key = append(key, ticker...)
	key = append(key, ':')
	return append(key, owner...)
}

// allowanceKey composes the storage key of an allowance. Owner and spender
// addresses have a fixed length, so the concatenation is unambiguous.
func allowanceKey(ticker string, owner, spender abacus.Address) []byte {
	key := make([]byte, 0, len(ticker)+1+len(owner)+len(spender))
	key = append(key, ticker...)
	key = append(key, ':')
	key = append(key, owner...)
	return append(key, spender...)
}

// TokenBucket stores issued tokens under their ticker.
type TokenBucket struct {
	migration.Bucket
}

// NewTokenBucket sets up the bucket holding token definitions.
func NewTokenBucket() TokenBucket {
	return TokenBucket{
		Bucket: migration.NewBucket(packageName, TokenBucketName,
			orm.NewSimpleObj(nil, &Token{})),
	}
}

// GetToken returns the token issued under the given ticker.
func (b TokenBucket) GetToken(db abacus.ReadOnlyKVStore, ticker string) (*Token, error) {
	obj, err := b.Get(db, []byte(ticker))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrUnknownToken, "ticker %s", ticker)
	}
	t, ok := obj.Value().(*Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return t, nil
}

// BalanceBucket stores one record per token and holder.
type BalanceBucket struct {
	migration.Bucket
}

// NewBalanceBucket initializes a BalanceBucket with default name.
func NewBalanceBucket() BalanceBucket {
	return BalanceBucket{
		Bucket: migration.NewBucket(packageName, BalanceBucketName,
			orm.NewSimpleObj(nil, &Balance{})),
	}
}

// GetBalance returns the balance of the given holder, or nil if the holder
// never received this token.
func (b BalanceBucket) GetBalance(db abacus.ReadOnlyKVStore, ticker string, owner abacus.Address) (*Balance, error) {
	obj, err := b.Get(db, balanceKey(ticker, owner))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	bal, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return bal, nil
}

// SaveBalance persists the balance under its composite key.
func (b BalanceBucket) SaveBalance(db abacus.KVStore, bal *Balance) error {
	return b.Save(db, orm.NewSimpleObj(balanceKey(bal.Amount.Ticker, bal.Owner), bal))
}

// AllowanceBucket stores one record per token, owner and spender.
type AllowanceBucket struct {
	migration.Bucket
}

// NewAllowanceBucket initializes an AllowanceBucket with default name.
func NewAllowanceBucket() AllowanceBucket {
	return AllowanceBucket{
		Bucket: migration.NewBucket(packageName, AllowanceBucketName,
			orm.NewSimpleObj(nil, &Allowance{})),
	}
}

// GetAllowance returns the allowance granted by owner to spender, or nil if
// none was ever approved.
func (b AllowanceBucket) GetAllowance(db abacus.ReadOnlyKVStore, ticker string, owner, spender abacus.Address) (*Allowance, error) {
	obj, err := b.Get(db, allowanceKey(ticker, owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	a, ok := obj.Value().(*Allowance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return a, nil
}

// SaveAllowance persists the allowance under its composite key.
func (b AllowanceBucket) SaveAllowance(db abacus.KVStore, a *Allowance) error {
	key := allowanceKey(a.Amount.Ticker, a.Owner, a.Spender)
	return b.Save(db, orm.NewSimpleObj(key, a))
}
