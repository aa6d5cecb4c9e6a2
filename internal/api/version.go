package api

// EngineVersion is set at build time via -ldflags.
var EngineVersion = "dev"
