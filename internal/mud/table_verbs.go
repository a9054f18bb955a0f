package mud

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cardmud/server/internal/database"
	"cardmud/server/internal/game"
	"cardmud/server/internal/models"
	"cardmud/server/internal/style"
)

// tableVerbs is the static sub-verb table for "table ...", built once
// at startup like the top-level verb table.
var tableVerbs map[string]verb

func init() {
	seated := []Capability{CapSeated}
	tableVerbs = map[string]verb{
		"create":  {caps: []Capability{CapHasDeck}, run: (*Session).tableCreate},
		"join":    {caps: []Capability{CapHasDeck}, run: (*Session).tableJoin},
		"leave":   {caps: seated, run: (*Session).tableLeave},
		"draw":    {caps: seated, run: (*Session).tableDraw},
		"hand":    {caps: seated, run: (*Session).tableHand},
		"play":    {caps: seated, run: (*Session).tablePlay},
		"discard": {caps: seated, run: (*Session).tableDiscard},
		"tap":     {caps: seated, run: (*Session).tableTap},
		"untap":   {caps: seated, run: (*Session).tableUntap},
		"destroy": {caps: seated, run: (*Session).tableDestroy},
		"return":  {caps: seated, run: (*Session).tableReturn},
		"greturn": {caps: seated, run: (*Session).tableGreturn},
		"unearth": {caps: seated, run: (*Session).tableUnearth},
		"exile":   {caps: seated, run: (*Session).tableExile},
		"grexile": {caps: seated, run: (*Session).tableGrexile},
		"tutor":   {caps: seated, run: (*Session).tableTutor},
		"shuffle": {caps: seated, run: (*Session).tableShuffle},
		"stack":   {caps: seated, run: (*Session).tableStack},
		"scoop":   {caps: seated, run: (*Session).tableScoop},
		"life":    {caps: seated, run: (*Session).tableLife},
		"dice":    {caps: seated, run: (*Session).tableDice},
		"time":    {caps: seated, run: (*Session).tableTime},
	}
}

func (s *Session) doTableVerb(args []string) {
	if len(args) == 0 {
		if s.table == nil {
			s.doHelp([]string{"table"})
			return
		}
		s.showTable()
		return
	}
	v, ok := tableVerbs[args[0]]
	if !ok {
		s.doHelp([]string{"table"})
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

// reportTableErr converts an engine failure into the player-facing
// message. Engine failures never mutate state, so there is nothing else
// to clean up here.
func (s *Session) reportTableErr(err error) {
	switch {
	case errors.Is(err, game.ErrIndexOutOfRange):
		s.Send("Out of range!")
	case errors.Is(err, game.ErrEmptyLibrary):
		s.Send("Your library is empty!")
	case errors.Is(err, game.ErrTableFull):
		s.Send("That table is full, sorry!")
	case errors.Is(err, game.ErrInvalidState):
		s.Send("You're not at a table!")
	case errors.Is(err, game.ErrNotFound):
		s.Send("Not found.")
	default:
		s.Send("Huh?")
	}
}

// expandDeck turns a deck's card-id to count mapping into one catalog
// card reference per copy. Catalog rows are immutable, so every copy
// can share the same record.
func expandDeck(deck *models.Deck) []*models.Card {
	out := make([]*models.Card, 0, deck.CardCount())
	for cardID, count := range deck.Cards {
		var card models.Card
		if err := database.DB.First(&card, cardID).Error; err != nil {
			continue
		}
		ref := card
		for i := 0; i < count; i++ {
			out = append(out, &ref)
		}
	}
	return out
}

func (s *Session) tableCreate(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"table"})
		return
	}
	if s.table != nil {
		s.Send("You're already at a table!")
		return
	}
	if s.room == nil {
		s.Send("You can't set up a table in the void.")
		return
	}
	name := style.StripColours(strings.Join(args, " "))
	if _, err := s.world.CreateTable(s.room, name); err != nil {
		s.Send(fmt.Sprintf("There is already a table called '%s' here.", name))
		return
	}
	s.tableJoin([]string{name})
}

func (s *Session) tableJoin(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"table"})
		return
	}
	if s.table != nil {
		s.Send("You're already at a table!")
		return
	}
	if s.room == nil {
		s.Send("There are no tables in the void.")
		return
	}
	name := strings.Join(args, " ")
	table := s.world.FindTable(s.room, name)
	if table == nil {
		s.Send(fmt.Sprintf("Could not find table '%s'.", name))
		return
	}
	deck := expandDeck(s.activeDeck())
	if err := table.Join(s.playerID(), s.Name(), deck); err != nil {
		s.reportTableErr(err)
		return
	}
	s.table = table
	s.world.hub.Subscribe(topicTable(table.Name), s.out)
}

func (s *Session) tableLeave(args []string) {
	s.leaveTable()
}

func (s *Session) tableDraw(args []string) {
	n := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			s.doHelp([]string{"table"})
			return
		}
		n = parsed
	}
	if n < 1 {
		s.Send("Ummm... how would you even... Uhh... I don't... No. Just, no.")
		return
	}
	if err := s.table.Draw(s.playerID(), n); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableHand(args []string) {
	cards, err := s.table.HandCards(s.playerID())
	if err != nil {
		s.reportTableErr(err)
		return
	}
	buff := style.Header40("Hand")
	for i, name := range cards {
		buff += style.Body40(fmt.Sprintf("%2d: %s", i, name))
	}
	buff += style.Blank40()
	buff += style.Footer40()
	s.Send(buff)
}

// indexArg parses the single zone-relative index the indexed verbs
// take.
func (s *Session) indexArg(args []string) (int, bool) {
	if len(args) == 0 {
		s.doHelp([]string{"table"})
		return 0, false
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		s.doHelp([]string{"table"})
		return 0, false
	}
	return idx, true
}

func (s *Session) tablePlay(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Play(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableDiscard(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Discard(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableTap(args []string) {
	if len(args) > 0 && args[0] == "all" {
		if err := s.table.TapAll(s.playerID()); err != nil {
			s.reportTableErr(err)
		}
		return
	}
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	card, err := s.table.TapCard(s.playerID(), idx)
	if errors.Is(err, game.ErrAlreadyInState) {
		s.Send(fmt.Sprintf("%s is already tapped.", card.Name()))
		return
	}
	if err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableUntap(args []string) {
	if len(args) > 0 && args[0] == "all" {
		if err := s.table.UntapAll(s.playerID()); err != nil {
			s.reportTableErr(err)
		}
		return
	}
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	card, err := s.table.UntapCard(s.playerID(), idx)
	if errors.Is(err, game.ErrAlreadyInState) {
		s.Send(fmt.Sprintf("'%s' is not tapped.", card.Name()))
		return
	}
	if err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableDestroy(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Destroy(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableReturn(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Return(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableGreturn(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Greturn(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableUnearth(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Unearth(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableExile(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Exile(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableGrexile(args []string) {
	idx, ok := s.indexArg(args)
	if !ok {
		return
	}
	if _, err := s.table.Grexile(s.playerID(), idx); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableTutor(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"table"})
		return
	}
	name := strings.Join(args, " ")
	if _, err := s.table.Tutor(s.playerID(), name); err != nil {
		if errors.Is(err, game.ErrNotFound) {
			s.Send(fmt.Sprintf("Failed to find '%s' in your library.", name))
			return
		}
		s.reportTableErr(err)
	}
}

func (s *Session) tableShuffle(args []string) {
	if err := s.table.Shuffle(s.playerID()); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableStack(args []string) {
	if err := s.table.Stack(s.playerID()); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableScoop(args []string) {
	if err := s.table.Scoop(s.playerID()); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableLife(args []string) {
	if len(args) == 0 {
		s.Send("Do what with your life total?")
		return
	}
	delta, err := strconv.Atoi(args[0])
	if err != nil {
		s.doHelp([]string{"table"})
		return
	}
	if _, err := s.table.AdjustLife(s.playerID(), delta); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableDice(args []string) {
	sides := 6
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			s.doHelp([]string{"table"})
			return
		}
		sides = parsed
	}
	if _, err := s.table.Dice(s.playerID(), sides); err != nil {
		s.reportTableErr(err)
	}
}

func (s *Session) tableTime(args []string) {
	elapsed := s.table.ElapsedTicks() / 60
	s.Send(fmt.Sprintf("%d minutes have elapsed.", elapsed))
}

// showTable renders the visible table state: life totals, hidden-zone
// counts and the open zones with their current indices.
func (s *Session) showTable() {
	view := s.table.Snapshot()
	buff := style.Header80(fmt.Sprintf("TABLE: %s", view.Name))
	for i, seat := range view.Seats {
		if i > 0 {
			buff += style.RowLine80()
		}
		buff += style.Body80(fmt.Sprintf("%s  Life: %d  Hand: %d  Library: %d", seat.Name, seat.Life, seat.HandCount, seat.LibraryCount))
		if len(seat.Battlefield) > 0 {
			buff += style.Body80("Battlefield:")
			for j, card := range seat.Battlefield {
				marker := ""
				if card.Tapped {
					marker = " (tapped)"
				}
				buff += style.Body80(fmt.Sprintf("  %2d: %s%s", j, card.Name, marker))
			}
		}
		if len(seat.Graveyard) > 0 {
			buff += style.Body80("Graveyard:")
			for j, name := range seat.Graveyard {
				buff += style.Body80(fmt.Sprintf("  %2d: %s", j, name))
			}
		}
		if len(seat.Exile) > 0 {
			buff += style.Body80(fmt.Sprintf("Exile: %s", strings.Join(seat.Exile, ", ")))
		}
	}
	if view.RoundExpired {
		buff += style.Body80("The round timer has expired.")
	}
	buff += style.Footer80()
	s.Send(buff)
}
