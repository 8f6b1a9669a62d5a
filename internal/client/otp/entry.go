// Package otp drives email verification after signup: the six-slot code
// entry, the resend cooldown and the verify/resend flow that ties them to
// the backend and the session.
package otp

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/kaanoon/internal/common"
)

// Length is the number of slots in an Entry.
const Length = common.OTPLength

// Entry is the code being typed: one digit per slot plus the slot that has
// focus. The zero value is an empty entry focused on slot 0.
type Entry struct {
	slots [Length]string
	focus int
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

// Input sets slot i to value, which must be a single digit or empty.
// A digit moves focus to the next slot unless i is the last one. Returns
// false, leaving the entry untouched, when the input is rejected.
func (e *Entry) Input(i int, value string) bool {
	if i < 0 || i >= Length {
		return false
	}
	if value != "" && !isDigit(value) {
		return false
	}
	e.slots[i] = value
	if value != "" && i < Length-1 {
		e.focus = i + 1
	}
	return true
}

// Backspace on an empty slot moves focus back one; on a filled slot it
// clears it.
func (e *Entry) Backspace(i int) {
	if i < 0 || i >= Length {
		return
	}
	if e.slots[i] == "" {
		if i > 0 {
			e.focus = i - 1
		}
		return
	}
	e.slots[i] = ""
}

// Paste fills slots from 0 with the first Length characters of text. Text
// that is not all digits is ignored. Focus lands on the first slot not
// filled, or the last slot.
func (e *Entry) Paste(text string) bool {
	if utf8.RuneCountInString(text) > Length {
		text = string([]rune(text)[:Length])
	}
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i : i+1]) {
			return false
		}
	}

	for i := 0; i < len(text); i++ {
		e.slots[i] = text[i : i+1]
	}
	e.focus = min(len(text), Length-1)
	return true
}

func (e *Entry) Focus() int {
	return e.focus
}

func (e *Entry) Digits() [Length]string {
	return e.slots
}

// Code joins the filled slots.
func (e *Entry) Code() string {
	return strings.Join(e.slots[:], "")
}

// Complete reports whether every slot holds a digit.
func (e *Entry) Complete() bool {
	for _, s := range e.slots {
		if s == "" {
			return false
		}
	}
	return true
}

func (e *Entry) Reset() {
	*e = Entry{}
}

// String renders the entry as "1 2 _ _ _ _" with the focused slot in
// brackets.
func (e *Entry) String() string {
	var b strings.Builder
	for i, s := range e.slots {
		if i > 0 {
			b.WriteByte(' ')
		}
		if s == "" {
			s = "_"
		}
		if i == e.focus {
			b.WriteString("[" + s + "]")
			continue
		}
		b.WriteString(s)
	}
	return b.String()
}
