package annotations

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/toyz/docanno/internal/errors"
)

// SourceLocation points at the start of a doc comment in a source file
type SourceLocation = errors.SourceLocation

// Arg is one entry of an annotation argument list. Named arguments carry a
// lower-cased Key and a Position of -1; bare tokens, and key=value tokens
// whose key is a decimal index such as "0", carry their Position.
type Arg struct {
	Key      string
	Position int
	Value    string
}

// IsNamed reports whether the argument came from a key=value token
func (a Arg) IsNamed() bool {
	return a.Position < 0
}

// Args holds the arguments of a single annotation in source order. Named
// and positional entries share one sequence; the two views are Named and
// Positional.
type Args struct {
	entries []Arg
	keys    slots
}

func newArgs() *Args {
	return &Args{keys: newSlots()}
}

// set stores a key=value argument. A repeated key overwrites the value in
// place; a decimal key addresses the positional slot of that index.
func (a *Args) set(key, value string) {
	arg := Arg{Key: key, Position: -1, Value: value}
	if pos, ok := a.keys.claim(key); ok {
		arg = Arg{Position: pos, Value: value}
	}
	a.put(key, arg)
}

// add appends a bare token one past the highest index used so far
func (a *Args) add(value string) {
	pos := a.keys.nextIndex()
	a.put(strconv.Itoa(pos), Arg{Position: pos, Value: value})
}

func (a *Args) put(key string, arg Arg) {
	if i, exists := a.keys.index[key]; exists {
		a.entries[i].Value = arg.Value
		return
	}
	a.keys.index[key] = len(a.entries)
	a.entries = append(a.entries, arg)
}

// Get returns the value stored under key. Keys are matched lower-cased;
// a decimal key returns the token at that position.
func (a *Args) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	i, exists := a.keys.index[key]
	if !exists {
		return "", false
	}
	return a.entries[i].Value, true
}

// At returns the token stored at position i
func (a *Args) At(i int) (string, bool) {
	if i < 0 {
		return "", false
	}
	return a.Get(strconv.Itoa(i))
}

// Named returns the key=value arguments as a map
func (a *Args) Named() map[string]string {
	named := make(map[string]string)
	if a == nil {
		return named
	}
	for _, entry := range a.entries {
		if entry.IsNamed() {
			named[entry.Key] = entry.Value
		}
	}
	return named
}

// Positional returns the tokens held by positional slots in source order
func (a *Args) Positional() []string {
	positional := make([]string, 0)
	if a == nil {
		return positional
	}
	for _, entry := range a.entries {
		if !entry.IsNamed() {
			positional = append(positional, entry.Value)
		}
	}
	return positional
}

// Entries returns a copy of all arguments in insertion order
func (a *Args) Entries() []Arg {
	if a == nil {
		return nil
	}
	entries := make([]Arg, len(a.entries))
	copy(entries, a.entries)
	return entries
}

// Len returns the number of arguments
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// MarshalJSON encodes the arguments as an object in insertion order, with
// bare tokens keyed by their position.
func (a *Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range a.Entries() {
		key := entry.Key
		if !entry.IsNamed() {
			key = strconv.Itoa(entry.Position)
		}
		if err := writeMember(&buf, i, key, entry.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EntryKind tells the two shapes of a parsed comment line apart
type EntryKind int

const (
	// NamedEntry is an annotation with a parenthesized argument list
	NamedEntry EntryKind = iota
	// BareEntry is a line without an argument list, kept verbatim
	BareEntry
)

// String returns the string representation of the entry kind
func (k EntryKind) String() string {
	switch k {
	case NamedEntry:
		return "named"
	case BareEntry:
		return "bare"
	default:
		return "unknown"
	}
}

// Entry is one contribution of a comment line to the parse result
type Entry struct {
	Kind     EntryKind
	Name     string // lower-cased annotation name (NamedEntry)
	Args     *Args  // parsed argument list (NamedEntry)
	Text     string // trimmed line text (BareEntry)
	Position int    // integer key of the line (BareEntry)
}

// Annotations is the parse result of one doc comment. Named annotations and
// bare lines live in one ordered sequence. It is not modified after Parse
// returns it.
type Annotations struct {
	entries []Entry
	keys    slots
}

func newAnnotations() *Annotations {
	return &Annotations{keys: newSlots()}
}

// set stores a named annotation. A repeated name replaces the earlier
// entry but keeps its position. A decimal name such as "0" shares the key
// space of bare lines and may replace one.
func (a *Annotations) set(name string, args *Args) {
	a.keys.claim(name)
	entry := Entry{Kind: NamedEntry, Name: name, Args: args, Position: -1}
	if i, exists := a.keys.index[name]; exists {
		a.entries[i] = entry
		return
	}
	a.keys.index[name] = len(a.entries)
	a.entries = append(a.entries, entry)
}

// addBare appends a line one past the highest integer key used so far
func (a *Annotations) addBare(text string) {
	pos := a.keys.nextIndex()
	a.keys.index[strconv.Itoa(pos)] = len(a.entries)
	a.entries = append(a.entries, Entry{Kind: BareEntry, Text: text, Position: pos})
}

// Get returns the arguments of a named annotation
func (a *Annotations) Get(name string) (*Args, bool) {
	if a == nil {
		return nil, false
	}
	i, exists := a.keys.index[name]
	if !exists || a.entries[i].Kind != NamedEntry {
		return nil, false
	}
	return a.entries[i].Args, true
}

// Has reports whether a named annotation is present
func (a *Annotations) Has(name string) bool {
	_, exists := a.Get(name)
	return exists
}

// Names returns the named annotations in the order they first appeared
func (a *Annotations) Names() []string {
	names := make([]string, 0)
	if a == nil {
		return names
	}
	for _, entry := range a.entries {
		if entry.Kind == NamedEntry {
			names = append(names, entry.Name)
		}
	}
	return names
}

// Bare returns the lines that had no argument list, in source order
func (a *Annotations) Bare() []string {
	bare := make([]string, 0)
	if a == nil {
		return bare
	}
	for _, entry := range a.entries {
		if entry.Kind == BareEntry {
			bare = append(bare, entry.Text)
		}
	}
	return bare
}

// Entries returns a copy of all entries in insertion order
func (a *Annotations) Entries() []Entry {
	if a == nil {
		return nil
	}
	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)
	return entries
}

// Len returns the number of entries
func (a *Annotations) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// IsEmpty reports whether the comment produced no entries
func (a *Annotations) IsEmpty() bool {
	return a.Len() == 0
}

// MarshalJSON encodes the result as one object in insertion order. Named
// annotations are keyed by name, bare lines by their position.
func (a *Annotations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range a.Entries() {
		var err error
		if entry.Kind == BareEntry {
			err = writeMember(&buf, i, strconv.Itoa(entry.Position), entry.Text)
		} else {
			err = writeMember(&buf, i, entry.Name, entry.Args)
		}
		if err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// slots tracks the keys of an ordered container whose unkeyed entries are
// numbered one past the highest decimal key seen so far, so that "0" written
// as a key and the first unkeyed entry address the same slot.
type slots struct {
	index map[string]int // key -> position in entries
	next  int
}

func newSlots() slots {
	return slots{index: make(map[string]int)}
}

// claim reports whether key is a decimal index and, if so, moves the
// counter past it.
func (s *slots) claim(key string) (int, bool) {
	pos, ok := decimalKey(key)
	if ok && pos >= s.next {
		s.next = pos + 1
	}
	return pos, ok
}

func (s *slots) nextIndex() int {
	pos := s.next
	s.next++
	return pos
}

// decimalKey accepts canonical non-negative integers: "0", "7", "12" but not
// "007", "+1", "-1" or values that would overflow the counter.
func decimalKey(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	pos, err := strconv.Atoi(key)
	if err != nil || pos == math.MaxInt {
		return 0, false
	}
	return pos, true
}

// writeMember appends `"key":value` to an object being built in buf
func writeMember(buf *bytes.Buffer, i int, key string, value interface{}) error {
	if i > 0 {
		buf.WriteByte(',')
	}
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	buf.Write(encodedValue)
	return nil
}
