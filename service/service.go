// Package service runs the elimination engine for remote callers over QUIC.
// Requests and responses are the pb messages, one per frame.
package service

import (
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("service")
