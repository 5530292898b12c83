package authsession

import (
	"context"
	"errors"
	"io"
	"net"
	"unicode/utf8"

	"github.com/wowauth/authd/internal/accounts"
	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
	"github.com/wowauth/authd/internal/srp"
	"github.com/wowauth/authd/internal/wire"
)

// Session drives one client connection through the authentication state
// machine described in §4.3: Start, then either ConnectChallenge or
// ReconnectChallenge, then the terminal Realmlist state.
type Session struct {
	conn         net.Conn
	clientIP     string
	accountStore accounts.Store
	realmStore   realms.Store
	limiter      *RateLimiter
	log          *logging.Logger

	state State

	username       string
	pendingServer  *srp.Server
	reconnectNonce srp.ReconnectNonce
}

// New creates a Session for a freshly accepted connection.
func New(conn net.Conn, accountStore accounts.Store, realmStore realms.Store, limiter *RateLimiter, log *logging.Logger) *Session {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	return &Session{
		conn:         conn,
		clientIP:     host,
		accountStore: accountStore,
		realmStore:   realmStore,
		limiter:      limiter,
		log:          log,
		state:        Start,
	}
}

// Serve reads and dispatches frames until the connection is rejected,
// closed, or ctx is cancelled. It always closes conn before returning.
func (s *Session) Serve(ctx context.Context) {
	defer s.conn.Close()

	deadline := newHandshakeDeadline(s.conn)
	for {
		if ctx.Err() != nil {
			return
		}
		if err := deadline.arm(); err != nil {
			s.log.Debug("authsession: arming deadline", map[string]any{"err": err.Error()})
			return
		}

		if err := s.readAndDispatch(); err != nil {
			var proto *ProtocolError
			var transport *TransportError
			switch {
			case errors.As(err, &proto):
				s.log.Debug("authsession: protocol error", map[string]any{"client_ip": s.clientIP, "reason": proto.Reason})
			case errors.As(err, &transport):
				// read/write failure or timeout; nothing more to say
			case errors.Is(err, io.EOF):
			default:
				s.log.Warn("authsession: session error", map[string]any{"client_ip": s.clientIP, "err": err.Error()})
			}
			return
		}

		if s.state == Rejected {
			return
		}
	}
}

func (s *Session) readAndDispatch() error {
	opcode, err := s.readOpcode()
	if err != nil {
		return err
	}

	switch s.state {
	case Start:
		return s.handleStart(wire.Command(opcode))
	case ConnectChallenge:
		if wire.Command(opcode) != wire.CmdAuthLogonProof {
			return s.reject(wire.Failed, &ProtocolError{Reason: "expected AuthLogonProof"})
		}
		return s.handleConnectProof()
	case ReconnectChallenge:
		if wire.Command(opcode) != wire.CmdAuthReconnectProof {
			return s.reject(wire.Failed, &ProtocolError{Reason: "expected AuthReconnectProof"})
		}
		return s.handleReconnectProof()
	case Realmlist:
		if wire.Command(opcode) != wire.CmdRealmList {
			return s.reject(wire.Failed, &ProtocolError{Reason: "expected RealmListRequest"})
		}
		return s.handleRealmList()
	default:
		return &ProtocolError{Reason: "frame received in terminal state"}
	}
}

func (s *Session) readOpcode() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(s.conn, b[:]); err != nil {
		return 0, &TransportError{Err: err}
	}
	return b[0], nil
}

func (s *Session) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.conn, buf); err != nil {
		return nil, &TransportError{Err: err}
	}
	return buf, nil
}

func (s *Session) write(frame []byte) error {
	if _, err := s.conn.Write(frame); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func (s *Session) handleStart(cmd wire.Command) error {
	switch cmd {
	case wire.CmdConnectRequest:
		return s.handleConnectRequest()
	case wire.CmdAuthReconnectChallenge:
		return s.handleReconnectRequest()
	default:
		return &ProtocolError{Reason: "unexpected opcode in Start"}
	}
}

func (s *Session) handleConnectRequest() error {
	body, err := s.readExact(wire.ConnectRequestSize)
	if err != nil {
		return err
	}
	req, err := wire.DecodeConnectRequest(body)
	if err != nil {
		return &ProtocolError{Reason: err.Error()}
	}

	tail, err := s.readExact(int(req.IdentifierLength))
	if err != nil {
		return err
	}
	if !utf8.Valid(tail) {
		return s.reject(wire.Failed, &ProtocolError{Reason: "username is not valid UTF-8"})
	}
	username := string(tail)

	if req.Build != wire.ExpectedBuild {
		return s.reject(wire.VersionInvalid, &VersionError{Build: req.Build})
	}

	account, err := s.accountStore.Lookup(context.Background(), username)
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		return s.reject(wire.UnknownAccount, &AuthenticationError{Kind: AuthUnknownAccount})
	case err != nil:
		return s.reject(wire.Failed, &AccountLookupError{Username: username, Err: err})
	}

	switch account.BanStatus {
	case accounts.BanPermanent:
		return s.reject(wire.Banned, &AuthenticationError{Kind: AuthBanned})
	case accounts.BanTemporary:
		return s.reject(wire.Suspended, &AuthenticationError{Kind: AuthSuspended})
	}

	server, err := srp.NewServer(account.Username, account.Salt, account.Verifier)
	if err != nil {
		return s.reject(wire.Failed, &AccountLookupError{Username: username, Err: err})
	}

	s.username = account.Username
	s.pendingServer = server
	s.state = ConnectChallenge
	return s.write(wire.ConnectChallengeFrame(server.PublicKey(), server.Salt()))
}

func (s *Session) handleConnectProof() error {
	if ok, retryAfter := s.limiter.Allow(s.clientIP); !ok {
		return s.reject(wire.Failed, &RateLimitedError{RetryAfter: retryAfter})
	}

	body, err := s.readExact(wire.ConnectProofSize)
	if err != nil {
		return err
	}
	proof, err := wire.DecodeConnectProof(body)
	if err != nil {
		return &ProtocolError{Reason: err.Error()}
	}

	sessionKey, ok := s.pendingServer.VerifyChallengeResponse(srp.PublicKey(proof.A), srp.Proof(proof.M1))
	if !ok {
		s.limiter.RecordFailure(s.clientIP)
		return s.reject(wire.IncorrectPassword, &AuthenticationError{Kind: AuthIncorrectPassword})
	}
	s.limiter.RecordSuccess(s.clientIP)

	if err := s.accountStore.SetSessionKey(context.Background(), s.username, sessionKey, s.clientIP); err != nil {
		return s.reject(wire.Failed, &PersistenceError{Err: err})
	}

	s.state = Realmlist
	serverProof := srp.ServerProof(srp.PublicKey(proof.A), srp.Proof(proof.M1), sessionKey)
	return s.write(wire.ConnectProofResponseFrame(serverProof))
}

func (s *Session) handleReconnectRequest() error {
	body, err := s.readExact(wire.ConnectRequestSize)
	if err != nil {
		return err
	}
	req, err := wire.DecodeConnectRequest(body)
	if err != nil {
		return &ProtocolError{Reason: err.Error()}
	}

	tail, err := s.readExact(int(req.IdentifierLength))
	if err != nil {
		return err
	}
	if !utf8.Valid(tail) {
		return s.reject(wire.Failed, &ProtocolError{Reason: "username is not valid UTF-8"})
	}
	username := string(tail)

	if req.Build != wire.ExpectedBuild {
		return s.reject(wire.VersionInvalid, &VersionError{Build: req.Build})
	}

	account, err := s.accountStore.Lookup(context.Background(), username)
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		return s.reject(wire.UnknownAccount, &AuthenticationError{Kind: AuthUnknownAccount})
	case err != nil:
		return s.reject(wire.Failed, &AccountLookupError{Username: username, Err: err})
	}
	if account.SessionKey == nil {
		return s.reject(wire.SessionExpired, &AuthenticationError{Kind: AuthSessionExpired})
	}

	nonce, err := srp.NewReconnectNonce()
	if err != nil {
		return s.reject(wire.Failed, &AccountLookupError{Username: username, Err: err})
	}

	s.username = account.Username
	s.reconnectNonce = nonce
	s.state = ReconnectChallenge
	return s.write(wire.ReconnectChallengeFrame(nonce))
}

func (s *Session) handleReconnectProof() error {
	if ok, retryAfter := s.limiter.Allow(s.clientIP); !ok {
		return s.reject(wire.Failed, &RateLimitedError{RetryAfter: retryAfter})
	}

	body, err := s.readExact(wire.ReconnectProofSize)
	if err != nil {
		return err
	}
	proof, err := wire.DecodeReconnectProof(body)
	if err != nil {
		return &ProtocolError{Reason: err.Error()}
	}

	account, err := s.accountStore.Lookup(context.Background(), s.username)
	if err != nil || account.SessionKey == nil {
		return s.reject(wire.SessionExpired, &AuthenticationError{Kind: AuthSessionExpired})
	}

	ok := srp.VerifyReconnectProof(s.username, srp.ReconnectProofData(proof.ProofData), s.reconnectNonce, *account.SessionKey, srp.Proof(proof.ClientProof))
	if !ok {
		s.limiter.RecordFailure(s.clientIP)
		return s.reject(wire.IncorrectPassword, &AuthenticationError{Kind: AuthIncorrectPassword})
	}
	s.limiter.RecordSuccess(s.clientIP)

	s.state = Realmlist
	return s.write(wire.ReconnectProofResponseFrame(wire.Success))
}

func (s *Session) handleRealmList() error {
	if _, err := s.readExact(wire.RealmListRequestSize); err != nil {
		return err
	}

	list, err := s.realmStore.ListRealms(context.Background())
	if err != nil {
		s.log.Warn("authsession: listing realms", map[string]any{"err": err.Error()})
		list = nil
	}

	clientIP := net.ParseIP(s.clientIP)
	entries := make([]wire.RealmEntry, 0, len(list))
	for _, r := range list {
		entries = append(entries, wire.RealmEntry{
			Type:           uint8(r.Type),
			Flags:          uint8(r.Flags),
			Name:           r.Name,
			Address:        realms.SelectAddress(r, clientIP),
			Population:     r.Population,
			CharacterCount: 0,
			Timezone:       r.Timezone,
			ID:             uint8(r.ID),
		})
	}

	frame, err := wire.RealmListResponseFrame(entries)
	if err != nil {
		return &ProtocolError{Reason: err.Error()}
	}
	return s.write(frame)
}

// reject writes a rejection frame, transitions to the terminal Rejected
// state, and drains any further bytes the client sends rather than tearing
// the connection down immediately — matching §7's requirement that a
// version rejection keep reading until the client closes, generalized here
// to every rejection so the teardown timing never itself signals which
// precondition failed. The drain is bounded by the handshake deadline
// already armed on the connection. A write failure here is not escalated,
// since the connection is already being abandoned.
func (s *Session) reject(code wire.ReturnCode, cause error) error {
	expected := s.expectedOpcode()
	s.state = Rejected
	_ = s.write(wire.RejectionFrame(expected, code))
	_, _ = io.Copy(io.Discard, s.conn)
	return cause
}

// expectedOpcode returns the opcode the client's next frame was supposed to
// carry in the current state, so a rejection can be shaped to match it
// instead of always looking like a ConnectChallenge failure.
func (s *Session) expectedOpcode() wire.Command {
	switch s.state {
	case ConnectChallenge:
		return wire.CmdAuthLogonProof
	case ReconnectChallenge:
		return wire.CmdAuthReconnectProof
	case Realmlist:
		return wire.CmdRealmList
	default:
		return wire.CmdConnectRequest
	}
}
