package config

// Defaults for settings that other packages also refer to
const (
	// DefaultDataDir holds books.json, users.json, favorites.json and reads.json
	DefaultDataDir = "./data"

	// DefaultPort matches the port the library web client expects
	DefaultPort = 5000

	// ServiceName is attached to every log line
	ServiceName = "bookshelf"
)
