package mud

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"cardmud/server/internal/auth"
	"cardmud/server/internal/database"
	"cardmud/server/internal/models"

	"gorm.io/gorm"
)

var namePattern = regexp.MustCompile(`^[\w-]+$`)

const loginUsage = "&RLogin Error.&x\r\n&GLogin:&x &g<username> <password>&x\r\n&CRegister:&x &cregister <username> <password> <password>&x"

// doLogin is the only verb an unauthenticated session gets: either
// "register <name> <password> <password>" or "<name> <password>".
func (s *Session) doLogin(args []string) {
	if len(args) == 0 {
		s.Send(loginUsage)
		return
	}

	if args[0] == "register" {
		if len(args) == 4 && args[2] == args[3] {
			s.doRegister(args[1], args[2])
			return
		}
		s.Send(loginUsage)
		return
	}

	if len(args) == 2 {
		user, err := auth.Authenticate(args[0], args[1])
		if err == nil {
			s.loadUser(user)
			return
		}
		if !errors.Is(err, auth.ErrBadCredentials) {
			log.Printf("Login failure for %q: %v", args[0], err)
		}
	}

	s.Send(loginUsage)
}

func (s *Session) doRegister(name, password string) {
	if !namePattern.MatchString(name) {
		s.Send("Invalid username, please only use alphanumerics.")
		return
	}
	if len(name) < 3 {
		s.Send("Username is too short (min. 3).")
		return
	}
	if len(name) > 20 {
		s.Send("Username is too long (max. 20).")
		return
	}
	for _, banned := range s.world.cfg.BannedNames {
		if strings.EqualFold(name, banned) {
			s.Send("That name is banned, sorry!")
			return
		}
	}
	var existing models.User
	if err := database.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		s.Send(fmt.Sprintf("Username '%s' is already taken, sorry.", name))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.Send("Something went wrong, please try again.")
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		s.Send("Something went wrong, please try again.")
		return
	}

	var defaults []models.Channel
	database.DB.Where("\"default\" = ?", true).Find(&defaults)
	listening := ""
	for _, ch := range defaults {
		listening += ch.Key
	}

	user := models.User{
		Name:         name,
		PasswordHash: hashed,
		Aliases:      map[string]string{},
		Listening:    listening,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		s.Send("Something went wrong, please try again.")
		return
	}
	s.loadUser(&user)
}

// loadUser promotes the session to authenticated: any previous session
// for the account is kicked, the user lands in the lobby and the realm
// hears about it.
func (s *Session) loadUser(user *models.User) {
	if user.Flags.Banned {
		s.Send("Eeek, it looks like you're banned buddy! Bye!")
		s.close()
		return
	}

	// Reload with deck associations for the prompt and table joins.
	database.DB.Preload("Decks").Preload("ActiveDeck").First(user, user.ID)

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.authed = true

	if old := s.world.bindUser(s); old != nil && old != s {
		old.Send("You have signed in from another location!")
		old.close()
	}

	// The admin account configured for the server always has the flag.
	if user.Name == s.world.cfg.AdminName && !user.Flags.Admin {
		s.mutateFlags(func(f *models.UserFlags) { f.Admin = true })
	}

	s.world.hub.Subscribe(topicServer, s.out)
	s.world.hub.Subscribe(topicUser(user.ID), s.out)
	s.world.moveToRoom(s, s.world.Lobby())

	s.world.Info(fmt.Sprintf("%s has entered the realm.", user.Name))
	s.doLook(nil)
}
