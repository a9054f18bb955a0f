package mud

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"cardmud/server/internal/database"
	"cardmud/server/internal/game"
	"cardmud/server/internal/hub"
	"cardmud/server/internal/models"
	"cardmud/server/internal/style"
)

// Session is one connection's state machine: unauthenticated until the
// login verb succeeds, then authenticated with a loaded user. room and
// table are owned by the session's read goroutine and only ever touched
// there; user flags can be flipped by admin verbs from other sessions,
// so they sit behind the mutex.
type Session struct {
	world *World
	conn  net.Conn
	out   hub.Client
	done  chan struct{}

	authed bool
	room   *Room
	table  *game.Table

	mu     sync.Mutex
	user   *models.User
	closed bool
}

const outboundQueueSize = 64

func newSession(w *World, conn net.Conn) *Session {
	return &Session{
		world: w,
		conn:  conn,
		out:   make(hub.Client, outboundQueueSize),
		done:  make(chan struct{}),
	}
}

// run drives the connection: a writer goroutine drains the outbound
// queue while this goroutine reads lines and dispatches them in order.
// Teardown runs here too, so the room and table fields are never
// mutated from another goroutine.
func (s *Session) run() {
	defer s.teardown()
	go s.writeLoop()

	log.Printf("Connected: %s", s.conn.RemoteAddr())
	s.world.addSession(s)

	s.doHelp([]string{"welcome"})
	s.prompt()

	scanner := bufio.NewScanner(s.conn)
	for scanner.Scan() {
		s.handleLine(scanner.Text())
		if s.isClosed() {
			return
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.out:
			if _, err := s.conn.Write(msg); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// close signals the session to shut down. It only flips the flag,
// releases the writer and closes the socket, all safe from any
// goroutine; the outbound channel is never closed, so a racing Send can
// at worst queue a message nobody reads. The real teardown happens on
// the read goroutine once the closed socket ends its scan loop.
func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.conn.Close()
}

// teardown releases everything the session holds. It runs on the read
// goroutine only.
func (s *Session) teardown() {
	s.close()
	log.Printf("Disconnected: %s", s.conn.RemoteAddr())

	s.leaveTable()
	s.world.hub.Drop(s.out)
	s.world.removeSession(s)
	s.save()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Send queues one message for the connection. The send is non-blocking:
// a backlogged connection loses output rather than stalling the caller.
func (s *Session) Send(msg string) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	data := []byte(style.Colourify("\r\n" + msg))
	select {
	case s.out <- data:
	default:
	}
}

// Disconnect sends a parting message and closes the connection. It is
// the exported face of close for the admin surfaces.
func (s *Session) Disconnect(msg string) {
	s.Send(msg)
	s.close()
}

// Name returns the user's name, or the empty string before login.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Name
}

func (s *Session) playerID() game.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.PlayerID(s.user.ID)
}

func (s *Session) flags() models.UserFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.UserFlags{}
	}
	return s.user.Flags
}

// mutateFlags applies an admin flag change to the live user and saves.
func (s *Session) mutateFlags(set func(*models.UserFlags)) {
	s.mu.Lock()
	set(&s.user.Flags)
	s.mu.Unlock()
	s.save()
}

func (s *Session) save() {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	if user == nil {
		return
	}
	if err := database.DB.Save(user).Error; err != nil {
		log.Printf("Failed to save user %s: %v", user.Name, err)
	}
}

// handleLine is the dispatch path of the command router. Every branch
// ends with the prompt being re-issued.
func (s *Session) handleLine(line string) {
	defer s.prompt()

	msg := strings.TrimSpace(line)
	args := strings.Fields(msg)

	if !s.authed {
		s.doLogin(args)
		return
	}

	if msg == "" {
		if s.table != nil {
			s.showTable()
		} else {
			s.doLook(nil)
		}
		return
	}

	// Single-pass alias expansion: the first token is substituted once
	// and the line re-tokenized. No recursive expansion.
	if repl, ok := s.user.Aliases[args[0]]; ok {
		args[0] = repl
		msg = strings.Join(args, " ")
		args = strings.Fields(msg)
	}

	// A leading channel key routes the rest of the line to chat.
	if ch, ok := s.world.ChannelByKey(msg[:1]); ok {
		s.doChannel(ch, msg[1:])
		return
	}

	v, ok := verbs[args[0]]
	if !ok {
		s.Send("Huh?")
		return
	}
	// Frozen blocks everything except logging out.
	if s.flags().Frozen && args[0] != "quit" {
		s.Send("You're frozen solid!")
		return
	}
	for _, c := range v.caps {
		if res := s.check(c); !res.OK {
			s.Send(res.Message)
			return
		}
	}
	v.run(s, args[1:])
}

// prompt renders the status prompt: name, active deck with its size,
// and hand/library/graveyard counts while seated.
func (s *Session) prompt() {
	if s.isClosed() {
		return
	}
	buff := ""
	if s.authed {
		buff += fmt.Sprintf("&B<&x &c%s&x ", s.Name())
		if deck := s.activeDeck(); deck != nil {
			buff += fmt.Sprintf("&B||&x &c%s&x &C(&x&c%d&x&C)&x ", deck.Name, deck.CardCount())
		}
		if s.table != nil {
			if hand, library, graveyard, ok := s.table.Counts(s.playerID()); ok {
				buff += fmt.Sprintf("&B||&x &GH&x:&G%d&x &YL&x:&Y%d&x &yG&x:&y%d&x ", hand, library, graveyard)
			}
		}
	}
	buff += "&B>&x&w>> &x"
	s.Send(buff)
}

func (s *Session) activeDeck() *models.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	return s.user.ActiveDeck
}

// leaveTable tears down the session's seat and garbage-collects the
// table when it ended.
func (s *Session) leaveTable() {
	table := s.table
	if table == nil {
		return
	}
	if err := table.Leave(s.playerID()); err == nil {
		s.world.hub.Unsubscribe(topicTable(table.Name), s.out)
	}
	s.table = nil
	if table.State() == game.Ended {
		s.world.removeTable(s.room, table)
	}
}
