package main

import "testing"

func TestAllSubcommandsRegistered(t *testing.T) {
	want := []string{"reboot", "pir", "ptz", "image", "battery", "status-light", "rtsp", "mqtt", "talk"}
	got := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Fatalf("expected subcommand %q to be registered", name)
		}
	}
}

func TestUnimplementedSubcommandsFail(t *testing.T) {
	for _, name := range []string{"rtsp", "mqtt", "talk"} {
		cmd := unimplementedCmd(name)
		if err := cmd.RunE(cmd, nil); err == nil {
			t.Fatalf("expected %s to return an error", name)
		}
	}
}
