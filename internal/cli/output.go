package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mcoot/signalbot/internal/api"
	"github.com/mcoot/signalbot/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case api.Health:
		o.printHealth(v)
	case []UserRow:
		o.printUsers(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// UserRow is one registered user as listed by the users command
type UserRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// UserRows converts registry users for output
func UserRows(users []*model.User) []UserRow {
	rows := make([]UserRow, len(users))
	for i, u := range users {
		rows[i] = UserRow{ID: string(u.ID), Name: u.DisplayName, Admin: u.IsAdmin}
	}
	return rows
}

func (o *Output) printHealth(h api.Health) {
	connected := "no"
	if h.Connected {
		connected = "yes"
	}
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Transport: %s (connected: %s)\n", h.Transport, connected)
	fmt.Fprintf(o.w, "Users: %d\n", h.Users)
	fmt.Fprintf(o.w, "Wordle: #%d\n", h.Puzzle)
}

func (o *Output) printUsers(rows []UserRow) {
	if len(rows) == 0 {
		fmt.Fprintln(o.w, "No registered users.")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADMIN")
	for _, r := range rows {
		admin := ""
		if r.Admin {
			admin = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Name, admin)
	}
	_ = tw.Flush()
}
