package domain

import (
    "errors"
    "strings"
)

// ErrBadCoordinate is returned for text that is not a column A-E followed by a row 0-4.
var ErrBadCoordinate = errors.New("coordinate must look like B3")

// ParsePos reads a coordinate such as "B3": column letter, then row digit.
func ParsePos(s string) (Pos, error) {
    s = strings.ToUpper(strings.TrimSpace(s))
    if len(s) != 2 {
        return Pos{}, ErrBadCoordinate
    }
    col, row := int(s[0]-'A'), int(s[1]-'0')
    p := Pos{Row: row, Col: col}
    if s[0] < 'A' || s[1] < '0' || !p.InBounds() {
        return Pos{}, ErrBadCoordinate
    }
    return p, nil
}

// String formats p as column letter and row digit.
func (p Pos) String() string {
    if !p.InBounds() {
        return "??"
    }
    return string([]byte{byte('A' + p.Col), byte('0' + p.Row)})
}
