package config

import (
	"fmt"
	"regexp"
)

var streamPattern = regexp.MustCompile(`^(mainStream|subStream|externStream|both|all)$`)

// reservedUsernames are rejected as camera usernames because they collide
// with the talk-back ACL's special "anyone" grouping.
var reservedUsernames = map[string]bool{
	"anyone":    true,
	"anonymous": true,
}

// Validate checks cfg for the constraints the original tool enforced at
// config-load time: camera names are unique, stream selectors are one of
// the known values, and usernames aren't reserved words.
func Validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Cameras))
	for _, cam := range cfg.Cameras {
		if cam.Name == "" {
			return fmt.Errorf("config: camera entry missing name")
		}
		if seen[cam.Name] {
			return fmt.Errorf("config: duplicate camera name %q", cam.Name)
		}
		seen[cam.Name] = true

		if cam.Address == "" {
			return fmt.Errorf("config: camera %q missing address", cam.Name)
		}
		if !streamPattern.MatchString(cam.Stream) {
			return fmt.Errorf("config: camera %q: invalid stream %q", cam.Name, cam.Stream)
		}
		if cam.ChannelID > 31 {
			return fmt.Errorf("config: camera %q: channel_id %d out of range 0-31", cam.Name, cam.ChannelID)
		}
		if reservedUsernames[cam.Username] {
			return fmt.Errorf("config: camera %q: username %q is reserved", cam.Name, cam.Username)
		}
	}
	return nil
}
