package sessiondb

// Version is the release version, set at build time with
// -ldflags "-X github.com/aretw0/sessiondb.Version=...".
var Version = "dev"
