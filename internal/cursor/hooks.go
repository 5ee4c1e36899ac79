// Package cursor models the .cursor directory of a workspace: the hooks.json
// file Cursor reads to discover hook commands, and workspace root discovery.
//
// hooks.json is owned by the editor and shared with other tools, so the model
// preserves everything it does not understand: unknown top-level keys, unknown
// events, and unknown fields on individual hook entries all survive a
// read-modify-write cycle.
package cursor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/google/shlex"

	"github.com/schmitthub/recur/internal/config"
)

// Hook event names matching Cursor hooks.json.
const (
	EventStop                 = "stop"
	EventBeforeShellExecution = "beforeShellExecution"
	EventBeforeMCPExecution   = "beforeMCPExecution"
	EventAfterFileEdit        = "afterFileEdit"
	EventBeforeSubmitPrompt   = "beforeSubmitPrompt"
)

// HooksFileVersion is the hooks.json schema version recur writes.
const HooksFileVersion = 1

// Hook is a single hook entry: a command Cursor runs with the event payload
// on stdin. Entries read from disk keep their original JSON so fields recur
// does not model survive rewrites.
type Hook struct {
	Command string

	raw json.RawMessage
}

// NewHook returns a hook entry for command.
func NewHook(command string) Hook {
	return Hook{Command: command}
}

// UnmarshalJSON decodes a hook entry, retaining the raw bytes.
func (h *Hook) UnmarshalJSON(data []byte) error {
	var entry struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	h.Command = entry.Command
	h.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the original bytes for entries read from disk, as long
// as the command has not been rewritten in the meantime.
func (h Hook) MarshalJSON() ([]byte, error) {
	if h.raw != nil {
		var entry struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal(h.raw, &entry); err == nil && entry.Command == h.Command {
			return h.raw, nil
		}
	}
	return json.Marshal(struct {
		Command string `json:"command"`
	}{Command: h.Command})
}

// HooksFile is the parsed .cursor/hooks.json: a schema version plus hook
// entries per event. Extra holds top-level keys recur does not model.
type HooksFile struct {
	Version int
	Hooks   map[string][]Hook
	Extra   map[string]json.RawMessage
}

// DefaultHooksFile returns a version-1 hooks file registering command on the
// stop event.
func DefaultHooksFile(command string) *HooksFile {
	return &HooksFile{
		Version: HooksFileVersion,
		Hooks: map[string][]Hook{
			EventStop: {NewHook(command)},
		},
	}
}

// UnmarshalJSON decodes hooks.json, keeping unknown top-level keys in Extra.
func (f *HooksFile) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("hooks file is not a JSON object")
	}

	if raw, ok := fields["version"]; ok {
		if err := json.Unmarshal(raw, &f.Version); err != nil {
			return fmt.Errorf("hooks file version: %w", err)
		}
		delete(fields, "version")
	}
	if raw, ok := fields["hooks"]; ok {
		if err := json.Unmarshal(raw, &f.Hooks); err != nil {
			return fmt.Errorf("hooks file hooks: %w", err)
		}
		delete(fields, "hooks")
	}
	if len(fields) > 0 {
		f.Extra = fields
	}
	return nil
}

// MarshalJSON encodes the file with version and hooks merged back alongside
// any preserved unknown keys.
func (f *HooksFile) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(f.Extra)+2)
	for k, v := range f.Extra {
		out[k] = v
	}

	version, err := json.Marshal(f.Version)
	if err != nil {
		return nil, err
	}
	out["version"] = version

	hooks := f.Hooks
	if hooks == nil {
		hooks = map[string][]Hook{}
	}
	encoded, err := json.Marshal(hooks)
	if err != nil {
		return nil, err
	}
	out["hooks"] = encoded

	return json.Marshal(out)
}

// IsRegistered reports whether command is already registered for event.
// Matching is argv-aware: commands that split to the same argv are equal
// regardless of quoting or spacing.
func (f *HooksFile) IsRegistered(event, command string) bool {
	for _, h := range f.Hooks[event] {
		if commandEquals(h.Command, command) {
			return true
		}
	}
	return false
}

// Register appends command to event's hook list. Returns true if the file
// changed, false if an equivalent entry was already present.
func (f *HooksFile) Register(event, command string) bool {
	if f.IsRegistered(event, command) {
		return false
	}
	if f.Hooks == nil {
		f.Hooks = map[string][]Hook{}
	}
	f.Hooks[event] = append(f.Hooks[event], NewHook(command))
	return true
}

// Unregister removes all entries for event whose command matches. Empty
// event lists are pruned. Returns true if the file changed.
func (f *HooksFile) Unregister(event, command string) bool {
	entries, ok := f.Hooks[event]
	if !ok {
		return false
	}

	kept := entries[:0:0]
	for _, h := range entries {
		if !commandEquals(h.Command, command) {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(entries) {
		return false
	}

	if len(kept) == 0 {
		delete(f.Hooks, event)
	} else {
		f.Hooks[event] = kept
	}
	return true
}

// commandEquals compares two hook commands by their shell argv. Falls back to
// exact string comparison when either side does not tokenize.
func commandEquals(a, b string) bool {
	argvA, errA := shlex.Split(a)
	argvB, errB := shlex.Split(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return slices.Equal(argvA, argvB)
}

// ReadHooksFile parses the hooks.json at path. A missing or empty file yields
// a fresh version-1 file; a file that exists but does not parse is an error so
// callers never clobber something they cannot understand.
func ReadHooksFile(path string) (*HooksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &HooksFile{Version: HooksFileVersion}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &HooksFile{Version: HooksFileVersion}, nil
	}

	var f HooksFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.Version == 0 {
		f.Version = HooksFileVersion
	}
	return &f, nil
}

// WriteHooksFile persists the hooks file with a lock-guarded atomic write.
func WriteHooksFile(path string, f *HooksFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')

	return config.WithFileLock(path, func() error {
		return config.AtomicWriteFile(path, data, 0o644)
	})
}
