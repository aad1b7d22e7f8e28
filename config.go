package oc

import (
	"encoding/binary"

	"github.com/stewi1014/oc/cell"
	"github.com/stewi1014/oc/encio"
	"github.com/stewi1014/oc/types"
	"go.uber.org/zap"
)

// Config defines configuration for Marshal, Unmarshal, Encoders and Decoders.
// A nil *Config is the default configuration.
// Both ends of a stream must use the same settings.
type Config struct {
	// Order is the byte order. If nil, big-endian is used.
	Order binary.ByteOrder

	// DisableAutoLength stops objects, maps, lists and variable-length scalars from being given a length prefix.
	// Without it, only the last variable-length value in a record can be decoded.
	DisableAutoLength bool

	// Cache holds the field descriptions of objects. If nil, types.Default is used.
	Cache *types.Cache

	// Logger receives warnings. If nil, encio.Logger is used.
	Logger *zap.Logger
}

func (c *Config) copyAndFill() *Config {
	config := new(Config)
	if c != nil {
		*config = *c
	}

	if config.Order == nil {
		config.Order = binary.BigEndian
	}
	if config.Cache == nil {
		config.Cache = types.Default
	}
	if config.Logger == nil {
		config.Logger = encio.Logger
	}

	return config
}

// params returns new codec parameters for a single call.
func (c *Config) params() *cell.Params {
	return &cell.Params{
		Order:      c.Order,
		AutoLength: !c.DisableAutoLength,
		Cache:      c.Cache,
		Logger:     c.Logger,
	}
}
