package api

// CommandID is the identity of a command and the key of its log record.
// Its serialized form defines equality and ordering, not object identity,
// so it is encoded strictly: a key that fails to decode is a fatal error.
type CommandID struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
}

func (id CommandID) String() string {
	return id.Type + "/" + id.Entity + "/" + id.Action
}

// Command is the payload describing an action every node applies
// deterministically. It is encoded leniently: unknown fields from newer or
// older writers never fail a decode.
type Command struct {
	Statement  string            `json:"statement"`
	Overwrites map[string]string `json:"overwrites,omitempty"`
	Version    int               `json:"version,omitempty"`
}

// Payload is the decoded value of one log record: either a present Command
// or a tombstone. A tombstone marks a logical deletion and is never handed
// to consumers expecting a living command.
type Payload struct {
	cmd     Command
	present bool
}

func PresentPayload(cmd Command) Payload {
	return Payload{cmd: cmd, present: true}
}

func TombstonePayload() Payload {
	return Payload{}
}

// Command returns the contained command and whether one is present.
func (p Payload) Command() (Command, bool) {
	return p.cmd, p.present
}

func (p Payload) IsTombstone() bool {
	return !p.present
}

// Record is the unit returned by live polls. Tombstones are included.
type Record struct {
	ID      CommandID
	Payload Payload
	Offset  int64
}

// QueuedCommand is the unit returned by replay: an identifier, a present
// command, and the record's original offset. Offset is nil when the source
// does not carry a sequence number. The caller owns the value and rebuilds
// state from it.
type QueuedCommand struct {
	ID      CommandID
	Command Command
	Offset  *int64
}
