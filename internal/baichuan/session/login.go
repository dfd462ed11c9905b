package session

import (
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/crypto"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// loginMsgID is the well-known msg_id every login exchange (both steps)
// uses, matching bcwire's post-decode hook trigger.
const loginMsgID = 1

// loginReplyTimeout bounds how long Login waits for each of the two replies.
const loginReplyTimeout = 15 * time.Second

// loginBody is the XML body shape shared by both login steps and their
// replies: the camera's Encryption challenge, and the client's credential
// submission.
type loginBody struct {
	XMLName    xml.Name    `xml:"body"`
	Encryption *encryption `xml:"Encryption,omitempty"`
	LoginUser  *loginUser  `xml:"LoginUser,omitempty"`
	LoginNet   *loginNet   `xml:"LoginNet,omitempty"`
}

type encryption struct {
	Version string `xml:"version,attr"`
	Type    string `xml:"type"`
	Nonce   string `xml:"nonce"`
}

type loginUser struct {
	Version  string `xml:"version,attr"`
	UserName string `xml:"userName"`
	Password string `xml:"password"`
	UserVer  uint32 `xml:"userVer"`
}

type loginNet struct {
	Version string `xml:"version,attr"`
	Type    string `xml:"type"`
	UDPPort uint16 `xml:"udpPort"`
}

// MaxEncryption bounds the encryption mode a camera is permitted to select
// during login; a camera selecting a stronger mode than this fails the
// exchange with AuthFailed rather than silently downgrading security
// expectations.
type MaxEncryption int

const (
	MaxEncryptionNone MaxEncryption = iota
	MaxEncryptionBcEncrypt
	MaxEncryptionAes
)

func (m MaxEncryption) allows(mode bcwire.EncryptionMode) bool {
	switch mode {
	case bcwire.ModeNone:
		return m >= MaxEncryptionNone
	case bcwire.ModeXor:
		return m >= MaxEncryptionBcEncrypt
	case bcwire.ModeAES:
		return m >= MaxEncryptionAes
	default:
		return false
	}
}

// Login runs the two-step login/key-derivation exchange (§4.7) to
// completion: an unauthenticated legacy-framed probe (sent unencrypted) to
// learn the camera's nonce and chosen mode, then a credentialed submission
// under that mode. It blocks until the camera's final response, returning AuthFailed if
// the response code isn't 200 or the camera's chosen mode exceeds
// maxEncryption.
func Login(c *Connection, username, password string, maxEncryption MaxEncryption) error {
	probe := &loginBody{
		LoginUser: &loginUser{Version: "1.1", UserName: "", Password: ""},
		LoginNet:  &loginNet{Version: "1.1", Type: "LAN"},
	}
	_, probeReply, err := sendLoginStep(c, probe, bcwire.ClassLegacyLogin)
	if err != nil {
		return err
	}
	if probeReply.Encryption == nil {
		return bcerrors.NewUnintelligibleReply("login probe reply carried no Encryption challenge", probeReply)
	}

	mode := c.state.Mode()
	if !maxEncryption.allows(mode) {
		return bcerrors.NewAuthFailed("camera selected encryption mode stronger than permitted")
	}

	nonce := probeReply.Encryption.Nonce
	if mode == bcwire.ModeAES {
		key := crypto.DeriveAESKey(nonce, password)
		c.SetAESKey(key)
		c.state.SetMode(bcwire.ModeAES, key)
	}

	credBody := &loginBody{
		LoginUser: &loginUser{
			Version:  "1.1",
			UserName: crypto.MD5Hex(username + nonce),
			Password: crypto.MD5Hex(password + nonce),
			UserVer:  1,
		},
		LoginNet: &loginNet{Version: "1.1", Type: "LAN"},
	}
	// The credentialed re-send uses modern framing, always encrypted under
	// whichever mode the probe reply selected (bcwire.ClassModernResent).
	header, _, err := sendLoginStep(c, credBody, bcwire.ClassModernResent)
	if err != nil {
		return err
	}
	if header.ResponseCode != 200 {
		return bcerrors.NewAuthFailed("login rejected")
	}
	c.fireConnected()
	return nil
}

// sendLoginStep sends one login-exchange packet on a fresh msg_num and
// blocks for its reply, returning the reply's header (for its response
// code) and parsed body. class selects legacy (unencrypted, bcwire bypasses
// crypto entirely) vs. modern-resent (encrypted under the session's current
// mode) framing.
func sendLoginStep(c *Connection, body *loginBody, class uint16) (*bcwire.Header, *loginBody, error) {
	payload, err := xml.Marshal(body)
	if err != nil {
		return nil, nil, err
	}

	msgNum := c.NextMsgNum()
	sub, err := c.Subscribe(msgNum)
	if err != nil {
		return nil, nil, err
	}
	defer sub.Close()

	pkt := &bcwire.Packet{
		Header: &bcwire.Header{
			MsgID:  loginMsgID,
			MsgNum: msgNum,
			Class:  class,
		},
	}
	if class == bcwire.ClassLegacyLogin {
		pkt.Body = &bcwire.Body{Legacy: true, LegacyPayload: payload}
	} else {
		pkt.Body = &bcwire.Body{Payload: payload}
	}
	if err := c.Send(pkt); err != nil {
		return nil, nil, err
	}

	timer := time.NewTimer(loginReplyTimeout)
	defer timer.Stop()
	select {
	case reply := <-sub.Recv():
		raw := reply.Body.LegacyPayload
		if !reply.Body.Legacy {
			raw = reply.Body.Payload
		}
		var out loginBody
		if err := xml.Unmarshal(raw, &out); err != nil {
			return nil, nil, bcerrors.NewUnintelligibleReply("login reply did not parse as XML", raw)
		}
		return reply.Header, &out, nil
	case <-sub.Done():
		return nil, nil, bcerrors.NewDroppedConnection("session.login.subscription_closed")
	case <-timer.C:
		return nil, nil, bcerrors.NewTimeout("session.login", loginReplyTimeout, nil)
	}
}
