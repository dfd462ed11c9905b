// Package pushcache persists the push-notification registration token a
// camera needs to address this client (recovered from
// crates/pushnoti/src/config.rs, whose original tool serialized the same
// registration to a token file next to its config). A Store reads and
// writes the token locally; an optional CloudMirror additionally syncs it to
// an Azure Blob container so multiple neolink instances can share one
// registration.
package pushcache

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// PushToken is the registration this client presents to a camera so it
// will route push notifications here (catalog.RegisterPushInfo's Token
// and ClientID arguments).
type PushToken struct {
	RegistrationID string
	Topic          string
	Updated        time.Time
}

// encode writes t in the line-oriented "key=value" format the original
// tool's token file used.
func (t PushToken) encode(w io.Writer) error {
	lines := []string{
		"registration_id=" + t.RegistrationID,
		"topic=" + t.Topic,
		"updated=" + strconv.FormatInt(t.Updated.Unix(), 10),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// decodeToken parses the "key=value" line format back into a PushToken.
func decodeToken(r io.Reader) (PushToken, error) {
	var t PushToken
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "registration_id":
			t.RegistrationID = value
		case "topic":
			t.Topic = value
		case "updated":
			sec, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return PushToken{}, fmt.Errorf("pushcache: invalid updated field %q: %w", value, err)
			}
			t.Updated = time.Unix(sec, 0).UTC()
		}
	}
	if err := scanner.Err(); err != nil {
		return PushToken{}, err
	}
	return t, nil
}
