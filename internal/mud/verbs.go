package mud

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cardmud/server/internal/database"
	"cardmud/server/internal/models"
	"cardmud/server/internal/style"
)

type verbFunc func(s *Session, args []string)

// verb pairs a handler with the capabilities the router must confirm
// before invoking it.
type verb struct {
	caps []Capability
	run  verbFunc
}

// verbs is the static dispatch table, built once at startup. Unknown
// verbs fall through to "Huh?" in the router.
var verbs map[string]verb

func init() {
	verbs = map[string]verb{
		"quit":       {run: (*Session).doQuit},
		"look":       {run: (*Session).doLook},
		"who":        {run: (*Session).doWho},
		"help":       {run: (*Session).doHelp},
		"alias":      {run: (*Session).doAlias},
		"rooms":      {run: (*Session).doRooms},
		"room":       {run: (*Session).doRoom},
		"goto":       {run: (*Session).doGoto},
		"card":       {run: (*Session).doCard},
		"deck":       {run: (*Session).doDeck},
		"decks":      {run: (*Session).doDecks},
		"table":      {run: (*Session).doTableVerb},
		"make_admin": {run: (*Session).doMakeAdmin},
		"mute":       {caps: []Capability{CapAdmin}, run: (*Session).doMute},
		"freeze":     {caps: []Capability{CapAdmin}, run: (*Session).doFreeze},
		"ban":        {caps: []Capability{CapAdmin}, run: (*Session).doBan},
	}
}

func (s *Session) doQuit(args []string) {
	s.Send("&gYou are wracked with uncontrollable pain as you are extracted from the Matrix.&x")
	if s.authed {
		s.world.Info(fmt.Sprintf("%s has left the realm.", s.Name()))
	}
	s.close()
}

func (s *Session) doLook(args []string) {
	if s.room == nil {
		s.Send(fmt.Sprintf("You're floating in a limitless void, flooded with eternal darkness...\r\nPlease 'goto %s'", s.world.cfg.LobbyRoomName))
		return
	}
	buff := style.RoomName(s.room.Name)
	if s.room.Description != "" {
		buff += style.RoomDesc(s.room.Description)
	}
	names := []string{"You"}
	for _, other := range s.world.OccupantSessions(s.room) {
		if other != s {
			names = append(names, other.Name())
		}
	}
	buff += style.RoomOccupants(names)
	s.Send(buff)
}

func (s *Session) doWho(args []string) {
	entries := s.world.Who()
	buff := style.Header80("ONLINE USERS")
	buff += style.Body2Cols80("USERS", "ROOM")
	buff += style.RowLine80()
	for _, e := range entries {
		buff += style.Body2Cols80(e.Name, e.Room)
	}
	buff += style.Body80(fmt.Sprintf("Online: %d", len(entries)))
	buff += style.Footer80()
	s.Send(buff)
}

// doHelp reads a help topic file; anything unknown (or path-shaped)
// falls back to the index.
func (s *Session) doHelp(args []string) {
	dir := s.world.cfg.HelpDir
	topic := strings.Join(args, " ")
	if topic == "" || strings.ContainsAny(topic, "/\\.") {
		topic = "help"
	}
	text, err := os.ReadFile(filepath.Join(dir, topic))
	if err != nil {
		text, err = os.ReadFile(filepath.Join(dir, "help"))
		if err != nil {
			s.Send("The help files seem to be missing...")
			return
		}
	}
	s.Send(strings.ReplaceAll(string(text), "\n", "\r\n"))
}

func (s *Session) doAlias(args []string) {
	if len(args) == 0 {
		buff := style.Header40("Aliases")
		for alias, expansion := range s.user.Aliases {
			buff += style.Body40(fmt.Sprintf("%s: %s", alias, expansion))
		}
		buff += style.Blank40()
		buff += style.Footer40()
		s.Send(buff)
		return
	}
	if args[0] == "delete" && len(args) > 1 {
		if _, ok := s.user.Aliases[args[1]]; ok {
			delete(s.user.Aliases, args[1])
			s.save()
			s.Send(fmt.Sprintf("Alias '%s' has been deleted.", args[1]))
			return
		}
		s.Send(fmt.Sprintf("You have no '%s' alias.", args[1]))
		return
	}
	if len(args) < 2 {
		s.doHelp([]string{"alias"})
		return
	}
	if args[1] == "alias" {
		s.Send("That's not a good idea...")
		return
	}
	expansion := strings.Join(args[1:], " ")
	s.user.Aliases[args[0]] = expansion
	s.save()
	s.Send(fmt.Sprintf("Alias '%s' for '%s' created.", args[0], expansion))
}

func (s *Session) doRooms(args []string) {
	buff := style.Header80("ROOMS")
	buff += style.Body2Cols80("ROOM", "USERS")
	buff += style.RowLine80()
	for _, entry := range s.world.RoomList() {
		buff += style.Body2Cols80(entry.Name, strings.Join(entry.Occupants, ", "))
	}
	buff += style.Blank80()
	buff += style.Footer80()
	s.Send(buff)
}

func (s *Session) doRoom(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"room"})
		return
	}
	rest := args[1:]
	switch args[0] {
	case "create":
		if len(rest) == 0 {
			s.doHelp([]string{"room"})
			return
		}
		name := style.StripColours(strings.Join(rest, " "))
		if _, err := s.world.CreateRoom(name, ""); err != nil {
			s.Send(fmt.Sprintf("The room name '%s' is already taken, sorry.", name))
			return
		}
		s.Send(fmt.Sprintf("Room created: %s", name))
	case "delete":
		if res := s.check(CapAdmin); !res.OK {
			s.Send(res.Message)
			return
		}
		if len(rest) == 0 {
			s.doHelp([]string{"room"})
			return
		}
		name := strings.Join(rest, " ")
		room := s.world.GetRoom(name)
		if room == nil {
			s.Send(fmt.Sprintf("Room '%s' was not found.", name))
			return
		}
		if err := s.world.DeleteRoom(room); err != nil {
			s.Send(fmt.Sprintf("Room '%s' cannot be deleted.", name))
			return
		}
		s.Send(fmt.Sprintf("Room '%s' has been deleted.", name))
	default:
		s.doHelp([]string{"room"})
	}
}

func (s *Session) doGoto(args []string) {
	if s.table != nil {
		s.Send("You can't leave now, you're at a table!")
		return
	}
	if len(args) == 0 {
		s.doHelp([]string{"goto"})
		return
	}
	name := strings.Join(args, " ")
	room := s.world.GetRoom(name)
	if room == nil {
		s.Send("Goto where?!")
		return
	}
	s.world.moveToRoom(s, room)
	s.doLook(nil)
}

func (s *Session) doCard(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"card"})
		return
	}
	name := strings.Join(args, " ")
	cards, err := models.SearchCards(database.DB, name)
	if err != nil || len(cards) == 0 {
		s.Send(fmt.Sprintf("Could not find card: %s", name))
		return
	}
	buff := ""
	for _, card := range cards {
		buff += style.Card(card)
	}
	s.Send(buff)
}
