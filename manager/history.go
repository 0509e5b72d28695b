package manager

import "strings"

// TranscriptEntry is one rendered line of an instance's conversation.
type TranscriptEntry struct {
	Role    string // uppercased
	Content string
}

// Transcript renders the instance's conversation in context order. Pure
// read; the live context is not touched.
func (m *Manager) Transcript(id string) ([]TranscriptEntry, error) {
	inst, err := m.resolve(id)
	if err != nil {
		return nil, err
	}

	msgs := inst.snapshot()
	entries := make([]TranscriptEntry, len(msgs))
	for i, msg := range msgs {
		entries[i] = TranscriptEntry{
			Role:    strings.ToUpper(msg.Role),
			Content: msg.Content,
		}
	}
	return entries, nil
}

// Transcripts renders every live instance. The id list is read once up
// front, so instances added or removed while this runs may or may not
// appear; there is no snapshot isolation across the whole set.
func (m *Manager) Transcripts() map[string][]TranscriptEntry {
	out := make(map[string][]TranscriptEntry)
	for _, id := range m.Instances() {
		entries, err := m.Transcript(id)
		if err != nil {
			// removed between listing and rendering
			continue
		}
		out[id] = entries
	}
	return out
}
