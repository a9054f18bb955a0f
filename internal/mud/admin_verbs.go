package mud

import (
	"errors"
	"fmt"

	"cardmud/server/internal/game"
	"cardmud/server/internal/models"
)

// doMakeAdmin grants the admin flag. Only the account named in the
// server config may use it, so it is gated on the name rather than
// CapAdmin.
func (s *Session) doMakeAdmin(args []string) {
	if s.Name() != s.world.cfg.AdminName {
		s.Send("Huh?")
		return
	}
	if len(args) == 0 {
		s.Send("Make who an Admin?")
		return
	}
	target := s.world.UserSession(args[0])
	if target == nil {
		s.Send(fmt.Sprintf("Could not find user '%s'.", args[0]))
		return
	}
	if target.flags().Admin {
		s.Send("They are already an Admin!")
		return
	}
	target.mutateFlags(func(f *models.UserFlags) { f.Admin = true })
	target.Send("&RYou have been made an Admin!&x")
	s.Send(fmt.Sprintf("&CYou have admin'd %s.&x", target.Name()))
}

func (s *Session) doMute(args []string) {
	if len(args) == 0 {
		s.Send("Mute who?")
		return
	}
	target, err := s.world.ApplyFlag(args[0], func(f *models.UserFlags) { f.Muted = true })
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			s.Send(fmt.Sprintf("Could not find user '%s'.", args[0]))
			return
		}
		s.Send("Huh?")
		return
	}
	if target != nil {
		target.Send("&RYou have been muted!&x")
	}
	s.Send(fmt.Sprintf("&CYou have muted %s.&x", args[0]))
}

func (s *Session) doFreeze(args []string) {
	if len(args) == 0 {
		s.Send("Freeze who?")
		return
	}
	target, err := s.world.ApplyFlag(args[0], func(f *models.UserFlags) { f.Frozen = true })
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			s.Send(fmt.Sprintf("Could not find user '%s'.", args[0]))
			return
		}
		s.Send("Huh?")
		return
	}
	if target != nil {
		target.Send("&RYou have been frozen solid!&x")
	}
	s.Send(fmt.Sprintf("&CYou have frozen %s.&x", args[0]))
}

// doBan flags the account and throws them out of the realm.
func (s *Session) doBan(args []string) {
	if len(args) == 0 {
		s.Send("Ban who?")
		return
	}
	target, err := s.world.ApplyFlag(args[0], func(f *models.UserFlags) { f.Banned = true })
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			s.Send(fmt.Sprintf("Could not find user '%s'.", args[0]))
			return
		}
		s.Send("Huh?")
		return
	}
	if target != nil {
		target.Send("&RYou have been banned!&x")
		target.doQuit(nil)
	}
	s.Send(fmt.Sprintf("&CYou have banned %s.&x", args[0]))
}
