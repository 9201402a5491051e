package school

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers this package's message types on the given codec so
// they can travel as the payload of a transaction envelope.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&EnrollMsg{}, pathEnrollMsg, nil)
	c.RegisterConcrete(&PayTuitionMsg{}, pathPayTuitionMsg, nil)
	c.RegisterConcrete(&RecordGradeMsg{}, pathRecordGradeMsg, nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, pathUpdateConfigurationMsg, nil)
}
