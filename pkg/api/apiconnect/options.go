// Package apiconnect provides Connect handlers and clients for the billmate.v1 services.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/billmate/pkg/api"
)

// This is a compile-time assertion that the JSON codec satisfies connect.Codec.
var _ connect.Codec = api.JSONCodec{}

// handlerOptions puts the JSON codec ahead of caller options so callers can still override it.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}
