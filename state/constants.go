package state

import (
	"net/netip"
	"time"
)

var (
	// host bits are kept on purpose, CORE allocates relative to the prefix start
	DefaultIp4Prefix = netip.MustParsePrefix("10.0.0.1/24")
	DefaultIp6Prefix = netip.MustParsePrefix("2001::/64")
	DefaultNodeModel = "router"

	EdgeModeDelay        = time.Millisecond * 250
	DefaultRemoteUrl     = "http://127.0.0.1:5000"
	DefaultRemoteTimeout = time.Second * 10

	DispatchBuffer       = 128
	ErrorBuffer          = 32
	SlowDispatchWarnTime = time.Millisecond * 4
)
