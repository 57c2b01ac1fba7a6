package dfa

// Classes assigns each of the 256 byte values to an equivalence class.
// Only bytes that change the machine's behavior (delimiter, quote,
// escape, terminator bytes) need their own class; every other byte
// behaves identically and shares class 0. Collapsing 256 columns down
// to a handful of classes is what keeps the compiled transition table
// small regardless of how exotic the input alphabet is.
type Classes struct {
	table [256]byte
	next  byte
}

// NewClasses returns a Classes with every byte initially in class 0.
func NewClasses() *Classes {
	return &Classes{next: 1}
}

// Add assigns b its own class if it doesn't have one yet, and returns
// that class. Calling Add twice with the same byte is a no-op the
// second time.
func (c *Classes) Add(b byte) byte {
	if c.table[b] != 0 {
		return c.table[b]
	}
	cls := c.next
	c.table[b] = cls
	c.next++
	return cls
}

// Class returns the equivalence class assigned to b.
func (c *Classes) Class(b byte) byte {
	return c.table[b]
}

// NumClasses returns the number of distinct classes in use, including
// class 0.
func (c *Classes) NumClasses() int {
	return int(c.next)
}

// representatives returns, for each class, one byte value that belongs
// to it. Because bytes sharing a class are behaviorally identical by
// construction, running the NFA on the representative is enough to
// determine the transition for every byte in the class.
func (c *Classes) representatives() []byte {
	reps := make([]byte, c.NumClasses())
	seen := make([]bool, c.NumClasses())
	for b := 0; b < 256; b++ {
		cls := c.table[b]
		if !seen[cls] {
			reps[cls] = byte(b)
			seen[cls] = true
		}
	}
	return reps
}
