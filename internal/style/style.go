package style

import (
	"fmt"
	"regexp"
	"strings"

	"cardmud/server/internal/models"

	"github.com/fatih/color"
)

// Output goes to sockets, not a terminal, so never let the colour
// library decide to strip the escape codes.
func init() {
	color.NoColor = false
}

var tokens = map[string]*color.Color{
	"&R": color.New(color.FgHiRed),
	"&r": color.New(color.FgRed),
	"&G": color.New(color.FgHiGreen),
	"&g": color.New(color.FgGreen),
	"&B": color.New(color.FgHiBlue),
	"&b": color.New(color.FgBlue),
	"&C": color.New(color.FgHiCyan),
	"&c": color.New(color.FgCyan),
	"&Y": color.New(color.FgHiYellow),
	"&y": color.New(color.FgYellow),
	"&M": color.New(color.FgHiMagenta),
	"&m": color.New(color.FgMagenta),
	"&W": color.New(color.FgHiWhite),
	"&w": color.New(color.FgWhite),
}

var tokenPattern = regexp.MustCompile(`&[RrGgBbCcYyMmWwx]`)

// Colourify renders the &X colour tokens in a message to ANSI escapes.
// &x returns to plain text. Unknown & pairs pass through untouched.
func Colourify(s string) string {
	var b strings.Builder
	var active *color.Color
	flush := func(seg string) {
		if seg == "" {
			return
		}
		if active != nil {
			b.WriteString(active.Sprint(seg))
			return
		}
		b.WriteString(seg)
	}
	for {
		i := strings.IndexByte(s, '&')
		if i < 0 || i == len(s)-1 {
			flush(s)
			return b.String()
		}
		flush(s[:i])
		tok := s[i : i+2]
		switch {
		case tok == "&x":
			active = nil
		case tokens[tok] != nil:
			active = tokens[tok]
		default:
			flush(tok)
		}
		s = s[i+2:]
	}
}

// StripColours removes colour tokens, for display names that must stay
// plain (room and table names).
func StripColours(s string) string {
	return tokenPattern.ReplaceAllString(s, "")
}

const (
	wide   = 76 // inner width of the 80-column frame
	narrow = 36 // inner width of the 40-column frame
)

func frameLine(inner int) string {
	return "&B+" + strings.Repeat("-", inner+2) + "+&x\r\n"
}

// Header80 opens an 80-column framed block with a centred title.
func Header80(title string) string {
	return frameLine(wide) + fmt.Sprintf("&B|&x %s &B|&x\r\n", centre(title, wide)) + frameLine(wide)
}

// Footer80 closes an 80-column framed block.
func Footer80() string {
	return frameLine(wide)
}

// Body80 is one 80-column framed row.
func Body80(text string) string {
	return fmt.Sprintf("&B|&x %-*s &B|&x\r\n", wide, text)
}

// Body2Cols80 is one 80-column framed row split into two columns.
func Body2Cols80(left, right string) string {
	half := wide/2 - 1
	return fmt.Sprintf("&B|&x %-*s  %-*s &B|&x\r\n", half, left, half, right)
}

// RowLine80 separates header rows from body rows.
func RowLine80() string {
	return frameLine(wide)
}

// Blank80 is an empty framed row.
func Blank80() string {
	return Body80("")
}

// Header40 opens a 40-column framed block.
func Header40(title string) string {
	return frameLine(narrow) + fmt.Sprintf("&B|&x %s &B|&x\r\n", centre(title, narrow)) + frameLine(narrow)
}

// Footer40 closes a 40-column framed block.
func Footer40() string {
	return frameLine(narrow)
}

// Body40 is one 40-column framed row.
func Body40(text string) string {
	return fmt.Sprintf("&B|&x %-*s &B|&x\r\n", narrow, text)
}

// Blank40 is an empty 40-column framed row.
func Blank40() string {
	return Body40("")
}

func centre(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	pad := width - len(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// RoomName renders a room title for look output.
func RoomName(name string) string {
	return fmt.Sprintf("&C%s&x\r\n", name)
}

// RoomDesc renders a room description.
func RoomDesc(desc string) string {
	return fmt.Sprintf("&c%s&x\r\n", desc)
}

// RoomOccupants renders the occupant list for look output.
func RoomOccupants(names []string) string {
	return fmt.Sprintf("&gOccupants: %s&x\r\n", strings.Join(names, ", "))
}

// Card renders one catalog card for search output.
func Card(card models.Card) string {
	buff := Header40(card.Name)
	if card.ManaCost != "" {
		buff += Body40(fmt.Sprintf("Cost: %s", card.ManaCost))
	}
	buff += Body40(card.Type)
	if card.Power != "" || card.Toughness != "" {
		buff += Body40(fmt.Sprintf("%s/%s", card.Power, card.Toughness))
	}
	if card.Text != "" {
		for _, line := range wrap(card.Text, narrow) {
			buff += Body40(line)
		}
	}
	buff += Footer40()
	return buff
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
