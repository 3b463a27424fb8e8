package model

import (
	"fmt"
	"strings"
)

// UserID identifies a chat user. For Signal this is the sender's phone number.
type UserID string

// User is a registered chat user
type User struct {
	ID          UserID
	DisplayName string
	IsAdmin     bool
}

// recordSeparator splits the fields of a persisted user record
const recordSeparator = ":"

// Record encodes the user as an `id:name:flag` line (without newline).
// Names containing the separator are written as-is and will not parse back.
func (u *User) Record() string {
	flag := "0"
	if u.IsAdmin {
		flag = "1"
	}
	return strings.Join([]string{string(u.ID), u.DisplayName, flag}, recordSeparator)
}

// ParseUserRecord decodes an `id:name:flag` line. Any flag other than "1" means not admin.
func ParseUserRecord(line string) (*User, error) {
	fields := strings.Split(strings.TrimSpace(line), recordSeparator)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedRecord, len(fields))
	}
	return &User{
		ID:          UserID(fields[0]),
		DisplayName: fields[1],
		IsAdmin:     fields[2] == "1",
	}, nil
}
