package mud

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"cardmud/server/internal/config"
	"cardmud/server/internal/database"
	"cardmud/server/internal/game"
	"cardmud/server/internal/hub"
	"cardmud/server/internal/models"
	"cardmud/server/internal/style"

	"gorm.io/gorm"
)

// Room is a loaded room with its live occupants and tables. All of its
// mutable fields are guarded by the world lock.
type Room struct {
	ID          uint
	Name        string
	Description string
	occupants   []*Session
	tables      []*game.Table
}

// World is the process-wide registry of connected sessions, loaded
// rooms, active tables and chat channels. It is created once at startup
// and passed by reference to everything that needs it; mutation happens
// only through the session router and the table join/leave/create
// paths.
type World struct {
	cfg    *config.Config
	hub    *hub.Hub
	ticker *game.Ticker

	mu       sync.RWMutex
	sessions []*Session
	users    map[game.PlayerID]*Session
	rooms    []*Room
	tables   []*game.Table
	channels map[string]models.Channel
}

func NewWorld(cfg *config.Config, h *hub.Hub, ticker *game.Ticker) *World {
	return &World{
		cfg:      cfg,
		hub:      h,
		ticker:   ticker,
		users:    make(map[game.PlayerID]*Session),
		channels: make(map[string]models.Channel),
	}
}

// LoadRooms loads every persisted room into the live world.
func (w *World) LoadRooms() error {
	var rows []models.Room
	if err := database.DB.Find(&rows).Error; err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rooms = w.rooms[:0]
	for _, r := range rows {
		log.Printf("Loading room: %s", r.Name)
		w.rooms = append(w.rooms, &Room{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return nil
}

// LoadChannels loads the chat channels keyed by their leading rune.
func (w *World) LoadChannels() error {
	var rows []models.Channel
	if err := database.DB.Find(&rows).Error; err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.channels = make(map[string]models.Channel, len(rows))
	for _, ch := range rows {
		w.channels[ch.Key] = ch
	}
	return nil
}

// Notify delivers an engine message to each listed player's connection.
// It satisfies game.Notifier; a disconnected player simply has no
// subscriber on their topic and the message evaporates.
func (w *World) Notify(players []game.PlayerID, msg string) {
	data := []byte(style.Colourify("\r\n" + msg))
	for _, p := range players {
		w.hub.Broadcast(topicUser(uint(p)), data)
	}
}

// Info announces server-wide events (logins, departures).
func (w *World) Info(msg string) {
	w.hub.Broadcast(topicServer, []byte(style.Colourify("\r\n&W[info]&x "+msg)))
}

func (w *World) ChannelByKey(key string) (models.Channel, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ch, ok := w.channels[key]
	return ch, ok
}

func (w *World) GetRoom(name string) *Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.rooms {
		if r.Name == name {
			return r
		}
	}
	return nil
}

func (w *World) Lobby() *Room {
	return w.GetRoom(w.cfg.LobbyRoomName)
}

// UserSession finds the live session of a named user, if they are
// online.
func (w *World) UserSession(name string) *Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, s := range w.users {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (w *World) addSession(s *Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sessions = append(w.sessions, s)
}

func (w *World) removeSession(s *Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, other := range w.sessions {
		if other == s {
			w.sessions = append(w.sessions[:i], w.sessions[i+1:]...)
			break
		}
	}
	if s.user != nil {
		if w.users[game.PlayerID(s.user.ID)] == s {
			delete(w.users, game.PlayerID(s.user.ID))
		}
	}
	if s.room != nil {
		s.room.removeOccupant(s)
	}
}

// bindUser registers an authenticated session, displacing any previous
// session for the same account. The displaced session is returned so
// the caller can say goodbye to it outside the world lock.
func (w *World) bindUser(s *Session) *Session {
	id := game.PlayerID(s.user.ID)
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.users[id]
	w.users[id] = s
	return old
}

// moveToRoom places a session in a room, leaving its previous room and
// re-pointing the room-scoped chat subscription.
func (w *World) moveToRoom(s *Session, room *Room) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s.room != nil {
		s.room.removeOccupant(s)
		w.hub.Unsubscribe(topicRoom(s.room.Name), s.out)
	}
	s.room = room
	if room != nil {
		room.occupants = append(room.occupants, s)
		w.hub.Subscribe(topicRoom(room.Name), s.out)
	}
}

func (r *Room) removeOccupant(s *Session) {
	for i, o := range r.occupants {
		if o == s {
			r.occupants = append(r.occupants[:i], r.occupants[i+1:]...)
			return
		}
	}
}

// Occupants snapshots the names of everyone in the room.
func (w *World) Occupants(room *Room) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(room.occupants))
	for _, s := range room.occupants {
		names = append(names, s.Name())
	}
	return names
}

// OccupantSessions snapshots the sessions in the room.
func (w *World) OccupantSessions(room *Room) []*Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Session, len(room.occupants))
	copy(out, room.occupants)
	return out
}

// CreateRoom persists and loads a new room.
func (w *World) CreateRoom(name, description string) (*Room, error) {
	var existing models.Room
	err := database.DB.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, game.ErrAlreadyInState
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	row := models.Room{Name: name, Description: description}
	if err := database.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	room := &Room{ID: row.ID, Name: row.Name, Description: row.Description}
	w.mu.Lock()
	w.rooms = append(w.rooms, room)
	w.mu.Unlock()
	return room, nil
}

// DeleteRoom evicts occupants to the lobby, forgets the room and
// removes its row. The lobby itself cannot be deleted.
func (w *World) DeleteRoom(room *Room) error {
	if room.Name == w.cfg.LobbyRoomName {
		return game.ErrInvalidState
	}
	lobby := w.Lobby()
	for _, s := range w.OccupantSessions(room) {
		w.moveToRoom(s, lobby)
		s.Send(fmt.Sprintf("The lights flicker and you are suddenly in %s. Weird...", lobby.Name))
	}
	w.mu.Lock()
	for i, r := range w.rooms {
		if r == room {
			w.rooms = append(w.rooms[:i], w.rooms[i+1:]...)
			break
		}
	}
	w.mu.Unlock()
	return database.DB.Delete(&models.Room{}, room.ID).Error
}

// CreateTable makes a forming table owned by the room. The name must be
// unique within the room.
func (w *World) CreateTable(room *Room, name string) (*game.Table, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range room.tables {
		if t.Name == name {
			return nil, game.ErrAlreadyInState
		}
	}
	t := game.NewTable(name, w.ticker, w, uint64(w.cfg.RoundTicks))
	room.tables = append(room.tables, t)
	w.tables = append(w.tables, t)
	return t, nil
}

// FindTable resolves a table name within a room.
func (w *World) FindTable(room *Room, name string) *game.Table {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range room.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// removeTable garbage-collects an ended table from the room's and the
// server's active sets.
func (w *World) removeTable(room *Room, table *game.Table) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if room != nil {
		for i, t := range room.tables {
			if t == table {
				room.tables = append(room.tables[:i], room.tables[i+1:]...)
				break
			}
		}
	}
	for i, t := range w.tables {
		if t == table {
			w.tables = append(w.tables[:i], w.tables[i+1:]...)
			break
		}
	}
}

// WhoEntry is one row of the online user list.
type WhoEntry struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// Who snapshots the online users and their rooms.
func (w *World) Who() []WhoEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]WhoEntry, 0, len(w.users))
	for _, s := range w.users {
		entry := WhoEntry{Name: s.Name()}
		if s.room != nil {
			entry.Room = s.room.Name
		}
		out = append(out, entry)
	}
	return out
}

// RoomEntry is one row of the room list.
type RoomEntry struct {
	Name      string   `json:"name"`
	Occupants []string `json:"occupants"`
}

// RoomList snapshots every room with its occupant names.
func (w *World) RoomList() []RoomEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]RoomEntry, 0, len(w.rooms))
	for _, r := range w.rooms {
		entry := RoomEntry{Name: r.Name}
		for _, s := range r.occupants {
			entry.Occupants = append(entry.Occupants, s.Name())
		}
		out = append(out, entry)
	}
	return out
}

// TableViews snapshots every active table.
func (w *World) TableViews() []game.TableView {
	w.mu.RLock()
	tables := make([]*game.Table, len(w.tables))
	copy(tables, w.tables)
	w.mu.RUnlock()
	views := make([]game.TableView, 0, len(tables))
	for _, t := range tables {
		views = append(views, t.Snapshot())
	}
	return views
}

// ApplyFlag updates a user's flags in the database and on their live
// session if they are online. The live session is returned, nil when
// offline.
func (w *World) ApplyFlag(name string, set func(*models.UserFlags)) (*Session, error) {
	var user models.User
	if err := database.DB.Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.ErrNotFound
		}
		return nil, err
	}
	if s := w.UserSession(name); s != nil {
		s.mutateFlags(set)
		return s, nil
	}
	set(&user.Flags)
	if err := database.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return nil, nil
}

const topicServer = "server"

func topicRoom(name string) string  { return "room:" + name }
func topicTable(name string) string { return "table:" + name }
func topicUser(id uint) string      { return fmt.Sprintf("user:%d", id) }
