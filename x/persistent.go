package x

// Validater is implemented by values that can check their own state before
// being persisted or processed. A nil error means the value is safe to use.
// The spelling follows the method name, not the dictionary.
type Validater interface {
	Validate() error
}
