package main

import "testing"

func TestApplyDefaultCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "empty", args: nil, want: nil},
		{name: "bare", args: []string{"emoteoverlay"}, want: []string{"emoteoverlay", "run"}},
		{name: "explicit", args: []string{"emoteoverlay", "version"}, want: []string{"emoteoverlay", "version"}},
		{name: "flags", args: []string{"emoteoverlay", "run", "-c", "cfg.yaml"}, want: []string{"emoteoverlay", "run", "-c", "cfg.yaml"}},
	}
	for _, tc := range tests {
		got := applyDefaultCommand(tc.args)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: applyDefaultCommand length = %d, want %d", tc.name, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: applyDefaultCommand[%d] = %q, want %q", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"run": false, "notify": false, "catalog": false, "config": false, "version": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}
