package mud

import (
	"fmt"
	"strconv"
	"strings"

	"cardmud/server/internal/database"
	"cardmud/server/internal/models"
	"cardmud/server/internal/style"
)

// resolveCard narrows a name search to exactly one catalog card,
// messaging the player on a miss or an ambiguous match.
func (s *Session) resolveCard(name string) *models.Card {
	cards, err := models.SearchCards(database.DB, name)
	if err != nil || len(cards) == 0 {
		s.Send(fmt.Sprintf("Card '%s' not found.", name))
		return nil
	}
	if len(cards) > 1 {
		// An exact match wins over a prefix crowd ("Forest" among
		// "Forest Bear" etc).
		for i := range cards {
			if strings.EqualFold(cards[i].Name, name) {
				return &cards[i]
			}
		}
		names := make([]string, len(cards))
		for i, c := range cards {
			names[i] = c.Name
		}
		s.Send(fmt.Sprintf("Multiple cards called %s: %s. Please be more specific.", name, strings.Join(names, ", ")))
		return nil
	}
	return &cards[0]
}

// countPrefix peels an optional leading copy count off the args,
// defaulting to one.
func countPrefix(args []string) (int, []string) {
	if len(args) == 0 {
		return 1, args
	}
	if n, err := strconv.Atoi(args[0]); err == nil {
		return n, args[1:]
	}
	return 1, args
}

func (s *Session) doDeck(args []string) {
	if len(args) == 0 {
		deck := s.activeDeck()
		if deck == nil {
			s.doHelp([]string{"deck"})
			return
		}
		s.showDeck(deck)
		return
	}
	rest := args[1:]
	switch args[0] {
	case "create":
		s.deckCreate(rest)
	case "set":
		s.deckSet(rest)
	case "add":
		s.deckAdd(rest)
	case "remove":
		s.deckRemove(rest)
	default:
		s.doHelp([]string{"deck"})
	}
}

func (s *Session) showDeck(deck *models.Deck) {
	buff := style.Header40(deck.Name)
	for cardID, count := range deck.Cards {
		var card models.Card
		if err := database.DB.First(&card, cardID).Error; err != nil {
			continue
		}
		buff += style.Body40(fmt.Sprintf("%3d x %s", count, card.Name))
	}
	buff += style.Body40(fmt.Sprintf("[%d]", deck.CardCount()))
	buff += style.Footer40()
	s.Send(buff)
}

func (s *Session) deckCreate(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"deck"})
		return
	}
	name := style.StripColours(strings.Join(args, " "))
	for _, d := range s.user.Decks {
		if d.Name == name {
			s.Send(fmt.Sprintf("You already have a deck named '%s'.", name))
			return
		}
	}
	deck := models.Deck{Name: name, UserID: s.user.ID, Cards: map[uint]int{}}
	if err := database.DB.Create(&deck).Error; err != nil {
		s.Send("Something went wrong, please try again.")
		return
	}
	s.mu.Lock()
	s.user.Decks = append(s.user.Decks, deck)
	s.user.ActiveDeckID = &deck.ID
	s.user.ActiveDeck = &s.user.Decks[len(s.user.Decks)-1]
	s.mu.Unlock()
	s.save()
	s.Send(fmt.Sprintf("Created new deck '%s'.", name))
}

func (s *Session) deckSet(args []string) {
	if len(args) == 0 {
		s.doHelp([]string{"deck"})
		return
	}
	name := strings.Join(args, " ")
	for i := range s.user.Decks {
		if s.user.Decks[i].Name == name {
			s.mu.Lock()
			s.user.ActiveDeckID = &s.user.Decks[i].ID
			s.user.ActiveDeck = &s.user.Decks[i]
			s.mu.Unlock()
			s.save()
			s.Send(fmt.Sprintf("'%s' is now your active deck.", name))
			return
		}
	}
	s.Send(fmt.Sprintf("Deck '%s' not found.", name))
}

func (s *Session) deckAdd(args []string) {
	if res := s.check(CapHasDeck); !res.OK {
		s.Send(res.Message)
		return
	}
	if len(args) == 0 {
		s.doHelp([]string{"deck"})
		return
	}
	count, rest := countPrefix(args)
	if count < 1 || len(rest) == 0 {
		s.doHelp([]string{"deck"})
		return
	}
	card := s.resolveCard(strings.Join(rest, " "))
	if card == nil {
		return
	}
	deck := s.activeDeck()
	limit := s.world.cfg.DeckCardLimit
	if deck.CardCount()+count > limit {
		s.Send(fmt.Sprintf("Your deck is at the card limit (%d).", limit))
		return
	}
	deck.Cards[card.ID] += count
	if err := database.DB.Save(deck).Error; err != nil {
		s.Send("Something went wrong, please try again.")
		return
	}
	s.Send(fmt.Sprintf("Added %d x '%s' to '%s'.", count, card.Name, deck.Name))
}

func (s *Session) deckRemove(args []string) {
	if res := s.check(CapHasDeck); !res.OK {
		s.Send(res.Message)
		return
	}
	if len(args) == 0 {
		s.doHelp([]string{"deck"})
		return
	}
	count, rest := countPrefix(args)
	if count < 1 || len(rest) == 0 {
		s.doHelp([]string{"deck"})
		return
	}
	card := s.resolveCard(strings.Join(rest, " "))
	if card == nil {
		return
	}
	deck := s.activeDeck()
	if _, ok := deck.Cards[card.ID]; !ok {
		s.Send(fmt.Sprintf("'%s' is not in '%s'.", card.Name, deck.Name))
		return
	}
	deck.Cards[card.ID] -= count
	if deck.Cards[card.ID] < 1 {
		delete(deck.Cards, card.ID)
	}
	if err := database.DB.Save(deck).Error; err != nil {
		s.Send("Something went wrong, please try again.")
		return
	}
	s.Send(fmt.Sprintf("Removed %d x '%s' from '%s'.", count, card.Name, deck.Name))
}

func (s *Session) doDecks(args []string) {
	buff := style.Header40("Decks")
	for i := range s.user.Decks {
		deck := &s.user.Decks[i]
		marker := " "
		if s.user.ActiveDeckID != nil && *s.user.ActiveDeckID == deck.ID {
			marker = "*"
		}
		buff += style.Body40(fmt.Sprintf("%s[%3d] %s", marker, deck.CardCount(), deck.Name))
	}
	buff += style.Blank40()
	buff += style.Footer40()
	s.Send(buff)
}
