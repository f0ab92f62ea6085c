// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle from loading a recipe
// through emitting and running the ninja file, decoupled from any specific
// entrypoint like the CLI.
package app
