package renderer

import "github.com/sirupsen/logrus"

type cleanupEntry struct {
	name    string
	release func()
}

// cleanupStack releases resources in the reverse order they were created.
// Entries should read the renderer's current fields so that objects replaced
// during a resize are the ones released.
type cleanupStack struct {
	entries []cleanupEntry
}

func (c *cleanupStack) push(name string, release func()) {
	c.entries = append(c.entries, cleanupEntry{name: name, release: release})
}

func (c *cleanupStack) len() int {
	return len(c.entries)
}

func (c *cleanupStack) unwind(log logrus.FieldLogger) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		entry := c.entries[i]
		entry.release()
		log.WithField("resource", entry.name).Debug("released")
	}
	c.entries = nil
}
