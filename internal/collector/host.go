package collector

import (
	"context"
	"net"
	"os"

	"github.com/shirou/gopsutil/v3/host"
	gnet "github.com/shirou/gopsutil/v3/net"
)

// hostIdentity returns the host name and its first non-loopback IPv4
// address. Either value is empty when it cannot be determined.
func hostIdentity(ctx context.Context) (string, string) {
	var hostname string
	if info, err := host.InfoWithContext(ctx); err == nil {
		hostname = info.Hostname
	}
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return hostname, ""
	}
	return hostname, primaryIPv4(ifaces)
}

// primaryIPv4 picks the first IPv4 address of an interface that is up and
// not a loopback device.
func primaryIPv4(ifaces []gnet.InterfaceStat) string {
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, a := range iface.Addrs {
			ip, _, err := net.ParseCIDR(a.Addr)
			if err != nil {
				ip = net.ParseIP(a.Addr)
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if v4 := ip.To4(); v4 != nil {
				return v4.String()
			}
		}
	}
	return ""
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
