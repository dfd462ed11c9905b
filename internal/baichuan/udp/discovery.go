package udp

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neolink-go/neolink/internal/baichuan/crypto"
	"github.com/neolink-go/neolink/internal/bcerrors"
	"github.com/neolink-go/neolink/internal/logger"
)

// Method identifies one of the configured discovery strategies.
type Method int

const (
	MethodLocal Method = iota
	MethodRemote
	MethodRelay
	MethodCellular
)

func (m Method) String() string {
	switch m {
	case MethodLocal:
		return "local"
	case MethodRemote:
		return "remote"
	case MethodRelay:
		return "relay"
	case MethodCellular:
		return "cellular"
	default:
		return "unknown"
	}
}

// PerAttemptTimeout bounds a single discovery step (one XML round-trip).
const PerAttemptTimeout = 2 * time.Second

// DefaultMaxRetries is the total retry budget across all attempted methods.
const DefaultMaxRetries = 10

// DiscoveryResult is what a successful discovery method hands to the
// reliable-UDP transport: an already-"connected" datagram socket, the
// camera's address, and the connection IDs negotiated during the exchange.
type DiscoveryResult struct {
	Socket     net.PacketConn
	RemoteAddr net.Addr
	ClientID   uint32
	CameraID   uint32
	Method     Method
}

// UdpXml is the discovery-negotiation envelope. The registry is
// intentionally extensible: only the elements this implementation actively
// sends or inspects are given concrete fields; an unrecognised sibling
// element round-trips through xml.Unmarshal's default "ignore unknown
// elements" behaviour without needing a dedicated Go type.
type UdpXml struct {
	XMLName xml.Name `xml:"body"`
	C2dC    *C2dC    `xml:"C2D_C,omitempty"`
	D2cCR   *D2cCR   `xml:"D2C_C_R,omitempty"`
	C2dT    *C2dT    `xml:"C2D_T,omitempty"`
	D2cT    *D2cT    `xml:"D2C_T,omitempty"`
	C2dS    *C2dS    `xml:"C2D_S,omitempty"`
	D2cDisc *Disc    `xml:"D2C_DISC,omitempty"`
	R2cDisc *Disc    `xml:"R2C_DISC,omitempty"`
}

// C2dC is the client's local-broadcast "who has this UID" probe.
type C2dC struct {
	UID string `xml:"uid"`
}

// D2cCR is the camera's reply to C2D_C: its reachable address and the
// connection ID (did) the client should address it by.
type D2cCR struct {
	UID string `xml:"uid"`
	Did uint32 `xml:"did"`
	IP  string `xml:"ip"`
	Port int   `xml:"port"`
}

// C2dT completes the local handshake; D2cT confirms it, echoing the UID and
// the camera's did.
type C2dT struct {
	UID string `xml:"uid"`
	Cid uint32 `xml:"cid"`
}

type D2cT struct {
	UID string `xml:"uid"`
	Did uint32 `xml:"did"`
}

// C2dS is the remote-rendezvous probe sent to each vendor DNS candidate.
type C2dS struct {
	UID string `xml:"uid"`
}

// Disc is the shared shape of D2C_DISC / R2C_DISC termination notices.
type Disc struct {
	UID string `xml:"uid"`
}

// Race runs every supplied discovery attempt concurrently and returns the
// first to succeed; the rest are cancelled. Each attempt owns its own
// per-attempt timeout via ctx.
func Race(ctx context.Context, attempts map[Method]func(context.Context) (*DiscoveryResult, error)) (*DiscoveryResult, error) {
	log := logger.Logger().With("component", "udp.discovery")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	resultCh := make(chan *DiscoveryResult, 1)

	for method, attempt := range attempts {
		method, attempt := method, attempt
		g.Go(func() error {
			res, err := attempt(ctx)
			if err != nil {
				log.Debug("discovery method failed", "method", method, "error", err)
				return nil // other methods may still succeed; don't fail the group
			}
			select {
			case resultCh <- res:
			default:
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() { g.Wait(); close(done) }()

	select {
	case res := <-resultCh:
		cancel()
		return res, nil
	case <-done:
		select {
		case res := <-resultCh:
			return res, nil
		default:
			return nil, bcerrors.NewTimeout("udp.discovery.race", PerAttemptTimeout, nil)
		}
	}
}

// DiscoverLocal performs the LAN broadcast handshake: C2D_C -> D2C_C_R ->
// C2D_T -> D2C_T, per §4.5. broadcastAddrs are tried in order on the same
// socket; the first D2C_C_R response wins.
func DiscoverLocal(ctx context.Context, uid string, broadcastAddrs []string, tid uint32) (*DiscoveryResult, error) {
	conn, err := net.ListenPacket("udp4", "0.0.0.0:0")
	if err != nil {
		return nil, bcerrors.NewTransport("udp.discovery.local.listen", err)
	}

	probe := UdpXml{C2dC: &C2dC{UID: uid}}
	xmlBytes, err := xml.Marshal(probe)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("udp.discovery.local: marshal probe: %w", err)
	}
	disc := EncodeDiscovery(&Discovery{Tid: tid, Payload: crypto.UDPXorCrypt(tid, xmlBytes)})

	for _, addr := range broadcastAddrs {
		raddr, err := net.ResolveUDPAddr("udp4", addr)
		if err != nil {
			continue
		}
		if _, err := conn.WriteTo(disc, raddr); err != nil {
			continue
		}
	}

	reply, remote, err := readDiscoveryReply(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if reply.D2cCR == nil {
		conn.Close()
		return nil, bcerrors.NewUnintelligibleReply("expected D2C_C_R", reply)
	}
	cr := reply.D2cCR

	complete := UdpXml{C2dT: &C2dT{UID: uid, Cid: 0}}
	completeBytes, err := xml.Marshal(complete)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("udp.discovery.local: marshal complete: %w", err)
	}
	completeWire := EncodeDiscovery(&Discovery{Tid: tid, Payload: crypto.UDPXorCrypt(tid, completeBytes)})
	if _, err := conn.WriteTo(completeWire, remote); err != nil {
		conn.Close()
		return nil, bcerrors.NewTransport("udp.discovery.local.complete", err)
	}

	confirm, _, err := readDiscoveryReply(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if confirm.D2cT == nil {
		conn.Close()
		return nil, bcerrors.NewUnintelligibleReply("expected D2C_T", confirm)
	}

	return &DiscoveryResult{
		Socket:     conn,
		RemoteAddr: remote,
		ClientID:   0,
		CameraID:   cr.Did,
		Method:     MethodLocal,
	}, nil
}

// DiscoverRemote races C2D_S probes against a list of vendor rendezvous
// hostnames, returning the first camera address any of them yields.
func DiscoverRemote(ctx context.Context, uid string, rendezvous []string, tid uint32) (*DiscoveryResult, error) {
	conn, err := net.ListenPacket("udp4", "0.0.0.0:0")
	if err != nil {
		return nil, bcerrors.NewTransport("udp.discovery.remote.listen", err)
	}

	probe := UdpXml{C2dS: &C2dS{UID: uid}}
	xmlBytes, err := xml.Marshal(probe)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("udp.discovery.remote: marshal probe: %w", err)
	}
	disc := EncodeDiscovery(&Discovery{Tid: tid, Payload: crypto.UDPXorCrypt(tid, xmlBytes)})

	for _, host := range rendezvous {
		raddr, err := net.ResolveUDPAddr("udp4", host)
		if err != nil {
			continue
		}
		if _, err := conn.WriteTo(disc, raddr); err != nil {
			continue
		}
	}

	reply, remote, err := readDiscoveryReply(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if reply.D2cCR == nil {
		conn.Close()
		return nil, bcerrors.NewUnintelligibleReply("expected D2C_C_R from rendezvous", reply)
	}

	return &DiscoveryResult{
		Socket:     conn,
		RemoteAddr: remote,
		CameraID:   reply.D2cCR.Did,
		Method:     MethodRemote,
	}, nil
}

func readDiscoveryReply(ctx context.Context, conn net.PacketConn) (*UdpXml, net.Addr, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(PerAttemptTimeout)
	}
	conn.SetReadDeadline(deadline)

	buf := make([]byte, 4096)
	n, remote, err := conn.ReadFrom(buf)
	if err != nil {
		return nil, nil, bcerrors.NewTimeout("udp.discovery.read", PerAttemptTimeout, err)
	}
	d, _, err := DecodeDiscovery(buf[:n])
	if err != nil {
		return nil, nil, err
	}
	plain := crypto.UDPXorCrypt(d.Tid, d.Payload)
	var reply UdpXml
	if err := xml.Unmarshal(plain, &reply); err != nil {
		return nil, nil, bcerrors.NewUnintelligibleReply("malformed discovery xml", err)
	}
	return &reply, remote, nil
}
