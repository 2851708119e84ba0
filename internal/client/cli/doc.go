// Package cli implements the seniko command-line client: a cobra command
// tree with register, login and me subcommands that talk to the SeNiko HTTP
// API. Passwords are prompted for without echo and wiped after use.
package cli
