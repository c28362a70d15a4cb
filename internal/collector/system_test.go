package collector

import (
	"context"
	"path/filepath"
	"testing"

	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/Guliveer/mission-control/internal/models"
)

func TestParseMeminfo(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.MemoryInfo
	}{
		{
			name:    "available preferred",
			content: "MemTotal:        4194304 kB\nMemFree:          100000 kB\nMemAvailable:    1048576 kB\n",
			want:    models.MemoryInfo{Used: 3.0, Total: 4.0, Percent: 75, Unit: "GB"},
		},
		{
			name:    "free fallback",
			content: "MemTotal:        4194304 kB\nMemFree:         2097152 kB\n",
			want:    models.MemoryInfo{Used: 2.0, Total: 4.0, Percent: 50, Unit: "GB"},
		},
		{
			name:    "empty",
			content: "",
			want:    models.MemoryInfo{Unit: "GB"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMeminfo(tt.content); got != tt.want {
				t.Errorf("ParseMeminfo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLoadavg(t *testing.T) {
	l1, l5, l15 := ParseLoadavg("0.52 0.58 0.59 1/389 12345\n")
	if l1 != 0.52 || l5 != 0.58 || l15 != 0.59 {
		t.Errorf("ParseLoadavg = %v %v %v", l1, l5, l15)
	}

	l1, l5, l15 = ParseLoadavg("garbage")
	if l1 != 0 || l5 != 0 || l15 != 0 {
		t.Errorf("garbage ParseLoadavg = %v %v %v, want zeros", l1, l5, l15)
	}
}

func TestParseUptime(t *testing.T) {
	got := ParseUptime("172800.00 340000.00\n")
	if got.Seconds != 172800 || got.Formatted != "2.0 days" {
		t.Errorf("ParseUptime = %+v", got)
	}
	if got := ParseUptime(""); got.Formatted != "0.0 days" {
		t.Errorf("empty ParseUptime = %+v", got)
	}
}

func TestCountProcessors(t *testing.T) {
	cpuinfo := "processor\t: 0\nmodel name\t: x\n\nprocessor\t: 1\nmodel name\t: x\n"
	if got := CountProcessors(cpuinfo); got != 2 {
		t.Errorf("CountProcessors = %d, want 2", got)
	}
	if got := CountProcessors(""); got != 1 {
		t.Errorf("CountProcessors(empty) = %d, want 1", got)
	}
}

func TestLoadPercent(t *testing.T) {
	tests := []struct {
		load  float64
		cores int
		want  int
	}{
		{1.0, 4, 25},
		{0.5, 1, 50},
		{8, 4, 200},
		{1, 0, 100},
	}
	for _, tt := range tests {
		if got := LoadPercent(tt.load, tt.cores); got != tt.want {
			t.Errorf("LoadPercent(%v, %d) = %d, want %d", tt.load, tt.cores, got, tt.want)
		}
	}
}

func stubHost(c *SystemCollector, hostname, ip string) {
	c.identity = func(context.Context) (string, string) { return hostname, ip }
	c.disks = func(context.Context) []models.DiskInfo { return nil }
}

func TestSystemMetrics_FromProcDir(t *testing.T) {
	proc := t.TempDir()
	writeFile(t, proc, "meminfo", "MemTotal: 4194304 kB\nMemAvailable: 1048576 kB\n")
	writeFile(t, proc, "loadavg", "2.00 1.00 0.50 2/100 99\n")
	writeFile(t, proc, "uptime", "86400.0 1.0\n")
	writeFile(t, proc, "cpuinfo", "processor : 0\nprocessor : 1\nprocessor : 2\nprocessor : 3\n")

	c := NewSystemCollector(proc, "", "", nil)
	stubHost(c, "mc-host", "10.0.0.7")

	m, err := c.Metrics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.CPU.Cores != 4 || m.CPU.Load1 != 2 || m.CPU.UsagePercent != 50 {
		t.Errorf("cpu = %+v", m.CPU)
	}
	if m.Memory.Percent != 75 {
		t.Errorf("memory = %+v", m.Memory)
	}
	if m.Uptime.Formatted != "1.0 days" {
		t.Errorf("uptime = %+v", m.Uptime)
	}
	if m.Hostname != "mc-host" || m.IP != "10.0.0.7" {
		t.Errorf("identity = %q/%q", m.Hostname, m.IP)
	}
	if m.Disks == nil {
		t.Error("disks should be an empty list, not nil")
	}
}

func TestSystemMetrics_ConfiguredIdentityWins(t *testing.T) {
	c := NewSystemCollector(t.TempDir(), "dashboard", "", nil)
	stubHost(c, "introspected", "192.168.1.2")

	m, err := c.Metrics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Hostname != "dashboard" {
		t.Errorf("hostname = %q, want configured value", m.Hostname)
	}
	if m.IP != "192.168.1.2" {
		t.Errorf("ip = %q, want introspected value", m.IP)
	}
}

func TestSystemMetrics_MissingProcDirDegrades(t *testing.T) {
	c := NewSystemCollector(filepath.Join(t.TempDir(), "nope"), "", "", nil)
	stubHost(c, "h", "")

	m, err := c.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics should not fail: %v", err)
	}
	if m.CPU.Cores != 1 || m.CPU.Load1 != 0 || m.Memory.Total != 0 || m.Uptime.Seconds != 0 {
		t.Errorf("metrics = %+v, want zero values", m)
	}
}

func TestPrimaryIPv4(t *testing.T) {
	ifaces := []gnet.InterfaceStat{
		{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: []gnet.InterfaceAddr{{Addr: "127.0.0.1/8"}}},
		{Name: "eth1", Flags: []string{"broadcast"}, Addrs: []gnet.InterfaceAddr{{Addr: "10.9.9.9/24"}}},
		{Name: "eth0", Flags: []string{"up", "broadcast"}, Addrs: []gnet.InterfaceAddr{
			{Addr: "fe80::1/64"},
			{Addr: "192.168.0.10/24"},
		}},
	}
	if got := primaryIPv4(ifaces); got != "192.168.0.10" {
		t.Errorf("primaryIPv4 = %q, want 192.168.0.10", got)
	}
	if got := primaryIPv4(ifaces[:2]); got != "" {
		t.Errorf("primaryIPv4 without usable iface = %q, want empty", got)
	}
}
