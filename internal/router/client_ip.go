package router

import (
	"net"

	"github.com/labstack/echo/v4"
)

// clientIPExtractor decides what c.RealIP() returns, and so which address
// the rate limits are keyed on.
//
// Without trusted proxies the socket peer address is used and forwarding
// headers are ignored. With them, X-Forwarded-For is honored only for hops
// coming from the listed ranges.
func clientIPExtractor(trustedProxies []string) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		// Ranges are validated when the config is loaded.
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			options = append(options, echo.TrustIPRange(ipNet))
		}
	}

	return echo.ExtractIPFromXFFHeader(options...)
}
