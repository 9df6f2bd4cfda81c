// Copyright 2025 ao Authors

package cli

import (
	"testing"

	"github.com/gmagogsfm/ao/floatx"
	"github.com/gmagogsfm/ao/qlinear"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	want := map[string]bool{
		"verify": true,
		"bench":  true,
		"system": true,
	}
	cmds := rootCmd.Commands()
	got := make(map[string]bool)
	for _, c := range cmds {
		got[c.Name()] = true
	}
	for name := range want {
		if !got[name] {
			t.Errorf("root missing subcommand %q", name)
		}
	}
}

func TestVerifyCmd_Flags(t *testing.T) {
	for _, name := range []string{"m", "k", "n", "seed"} {
		if verifyCmd.Flags().Lookup(name) == nil {
			t.Errorf("verify command missing --%s flag", name)
		}
	}
}

func TestBenchCmd_Flags(t *testing.T) {
	for _, name := range []string{"m", "k", "n", "group-size", "seconds", "parallel", "workers"} {
		if benchCmd.Flags().Lookup(name) == nil {
			t.Errorf("bench command missing --%s flag", name)
		}
	}
}

func TestVerifyKernel(t *testing.T) {
	verifyM, verifyK, verifyN, verifySeed = 2, 64, 5, 7
	defer func() { verifyM, verifyK, verifyN, verifySeed = 4, 512, 33, 1 }()

	for _, gs := range qlinear.GroupSizes {
		if res := verifyKernel[float32](gs, 1e-4); !res.Pass {
			t.Errorf("%s: max rel err %v exceeds %v", res.EntryPoint, res.MaxRelErr, res.Tolerance)
		}
		if res := verifyKernel[floatx.Float16](gs, 2e-3); !res.Pass {
			t.Errorf("%s: max rel err %v exceeds %v", res.EntryPoint, res.MaxRelErr, res.Tolerance)
		}
	}
}

func TestDetectHost(t *testing.T) {
	info := detectHost()
	if info.Cores <= 0 {
		t.Errorf("Cores = %d", info.Cores)
	}
	if info.SIMDLevel == "" {
		t.Error("empty SIMD level")
	}
	if len(info.EntryPoints) != 12 {
		t.Errorf("EntryPoints has %d entries, want 12", len(info.EntryPoints))
	}
}
