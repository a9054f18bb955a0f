package mud

import (
	"fmt"
	"strings"

	"cardmud/server/internal/models"
	"cardmud/server/internal/style"
)

// doChannel routes a line that began with a channel key. A leading '@'
// after the key turns it into an emote.
func (s *Session) doChannel(ch models.Channel, rest string) {
	if s.flags().Muted {
		s.Send("You have been muted!")
		return
	}
	emote := strings.HasPrefix(rest, "@")
	if emote {
		rest = rest[1:]
	}
	msg := strings.TrimSpace(rest)
	if msg == "" {
		s.Send(fmt.Sprintf("%s what?", ch.Name))
		return
	}

	var text string
	if emote {
		text = fmt.Sprintf("%s[%s]&x %s %s", ch.ColourToken, ch.Name, s.Name(), msg)
	} else {
		text = fmt.Sprintf("%s[%s]&x %s: %s", ch.ColourToken, ch.Name, s.Name(), msg)
	}
	data := []byte(style.Colourify("\r\n" + text))

	switch ch.Scope {
	case models.ScopeServer:
		s.world.hub.Broadcast(topicServer, data)
	case models.ScopeRoom:
		if s.room == nil {
			s.Send("There's nobody out here to hear you.")
			return
		}
		s.world.hub.Broadcast(topicRoom(s.room.Name), data)
	case models.ScopeTable:
		if s.table == nil {
			s.Send("You're not at a table!")
			return
		}
		s.world.hub.Broadcast(topicTable(s.table.Name), data)
	case models.ScopeWhisper:
		s.doWhisper(ch, emote, msg)
	}
}

func (s *Session) doWhisper(ch models.Channel, emote bool, msg string) {
	parts := strings.Fields(msg)
	if len(parts) < 2 {
		s.Send("Whisper what to whom?")
		return
	}
	target := s.world.UserSession(parts[0])
	if target == nil {
		s.Send(fmt.Sprintf("Could not find user '%s'.", parts[0]))
		return
	}
	body := strings.Join(parts[1:], " ")
	if emote {
		target.Send(fmt.Sprintf("%s[%s]&x %s %s", ch.ColourToken, ch.Name, s.Name(), body))
		s.Send(fmt.Sprintf("%s[%s]&x You %s", ch.ColourToken, ch.Name, body))
		return
	}
	target.Send(fmt.Sprintf("%s[%s]&x %s: %s", ch.ColourToken, ch.Name, s.Name(), body))
	s.Send(fmt.Sprintf("%s[%s]&x You -> %s: %s", ch.ColourToken, ch.Name, target.Name(), body))
}
