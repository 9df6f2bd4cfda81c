// Copyright 2025 ao Authors

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/gmagogsfm/ao/qlinear"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show what the kernel dispatcher detected on this host",
	RunE:  runSystem,
}

// hostInfo describes the host as the dispatcher and pool see it.
type hostInfo struct {
	CPUName     string   `json:"cpu_name"`
	Cores       int      `json:"cores"`
	GOMAXPROCS  int      `json:"gomaxprocs"`
	GOOS        string   `json:"goos"`
	GOARCH      string   `json:"goarch"`
	TotalRAMGB  float64  `json:"total_ram_gb"`
	SIMDLevel   string   `json:"simd_level"`
	EntryPoints []string `json:"entry_points"`
}

const gb = 1024 * 1024 * 1024

func detectHost() hostInfo {
	info := hostInfo{
		CPUName:     "Unknown CPU",
		Cores:       runtime.NumCPU(),
		GOMAXPROCS:  runtime.GOMAXPROCS(0),
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		SIMDLevel:   qlinear.SIMDLevel().String(),
		EntryPoints: qlinear.Names(),
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		if infos[0].ModelName != "" {
			info.CPUName = infos[0].ModelName
		} else if infos[0].VendorID != "" {
			info.CPUName = infos[0].VendorID
		}
	}
	if v, err := mem.VirtualMemory(); err == nil {
		info.TotalRAMGB = float64(v.Total) / float64(gb)
	}
	return info
}

func runSystem(cmd *cobra.Command, args []string) error {
	info := detectHost()

	if globalJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"system": info})
	}

	fmt.Println("\n=== Host ===")
	fmt.Printf("CPU: %s (%d cores, GOMAXPROCS %d)\n", info.CPUName, info.Cores, info.GOMAXPROCS)
	fmt.Printf("Platform: %s/%s\n", info.GOOS, info.GOARCH)
	fmt.Printf("Total RAM: %.1f GB\n", info.TotalRAMGB)
	fmt.Printf("SIMD level: %s\n", info.SIMDLevel)
	fmt.Printf("Entry points: %s\n\n", strings.Join(info.EntryPoints, ", "))
	return nil
}
