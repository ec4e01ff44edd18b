package bootloader

// State is a step of the update sequence.
type State int

// Update states, in the order an update passes through them.
const (
	StateInit State = iota
	StateBootloaderEntry
	StateIdentify
	StateCompatibilityCheck
	StateEraseOrInit
	StateTransfer
	StateVerifyChecksum
	StateCommit
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateInit:               "init",
	StateBootloaderEntry:    "bootloader-entry",
	StateIdentify:           "identify",
	StateCompatibilityCheck: "compatibility-check",
	StateEraseOrInit:        "erase",
	StateTransfer:           "transfer",
	StateVerifyChecksum:     "verify-checksum",
	StateCommit:             "commit",
	StateDone:               "done",
	StateFailed:             "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further state follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
