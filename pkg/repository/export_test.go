package repository

// NewMemoryWithClock exposes a memory store with a fixed clock for tests
var NewMemoryWithClock = newMemory
