package cmd

import "testing"

func TestCommandRegistration(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "version", "doctor"} {
		if !names[want] {
			t.Errorf("command %q not registered", want)
		}
	}
}

func TestRootDefaultsToServe(t *testing.T) {
	if rootCmd.RunE == nil {
		t.Fatal("root command has no default action")
	}
	if rootCmd.Use != "risen" {
		t.Errorf("unexpected root use %q", rootCmd.Use)
	}
}
