package handler

import (
	"net/http"
	"strconv"

	"cardmud/server/internal/database"
	"cardmud/server/internal/models"
	"cardmud/server/internal/mud"

	"github.com/gin-gonic/gin"
)

// Handler exposes read-mostly views of the live world over HTTP. It
// holds the world by reference; all mutation still flows through the
// MUD's own verbs, except the admin flag endpoints.
type Handler struct {
	World *mud.World
}

func New(world *mud.World) *Handler {
	return &Handler{World: world}
}

// Who lists the online users and their rooms.
func (h *Handler) Who(c *gin.Context) {
	c.JSON(http.StatusOK, h.World.Who())
}

// Tables lists the active tables with their visible state.
func (h *Handler) Tables(c *gin.Context) {
	c.JSON(http.StatusOK, h.World.TableViews())
}

// Cards searches the card catalog, paginated.
func Cards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	q := c.Query("q")

	db := database.DB.Model(&models.Card{})
	if q != "" {
		db = db.Where("LOWER(name) LIKE LOWER(?)", "%"+q+"%")
	}
	response, err := Paginate[models.Card](db, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Card search failed"})
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) applyFlag(c *gin.Context, message string, set func(*models.UserFlags)) {
	name := c.Param("name")
	target, err := h.World.ApplyFlag(name, set)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target != nil && message != "" {
		target.Send(message)
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "online": target != nil})
}

// FreezeUser sets the frozen flag on a user.
func (h *Handler) FreezeUser(c *gin.Context) {
	h.applyFlag(c, "&RYou have been frozen solid!&x", func(f *models.UserFlags) { f.Frozen = true })
}

// MuteUser sets the muted flag on a user.
func (h *Handler) MuteUser(c *gin.Context) {
	h.applyFlag(c, "&RYou have been muted!&x", func(f *models.UserFlags) { f.Muted = true })
}

// BanUser sets the banned flag and disconnects the user if online.
func (h *Handler) BanUser(c *gin.Context) {
	name := c.Param("name")
	target, err := h.World.ApplyFlag(name, func(f *models.UserFlags) { f.Banned = true })
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target != nil {
		target.Disconnect("&RYou have been banned!&x")
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "online": target != nil})
}
