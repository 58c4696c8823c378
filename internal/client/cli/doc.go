// Package cli provides the interactive friendbook command-line client.
//
// App wires the configuration and the gRPC client into a read–eval–print
// loop. Commands:
//
//	register   create an account
//	login      authenticate with email and password
//	recover    set a new password using the account's secret code
//	whoami     show the logged-in account
//	profile    edit first name, last name and secret code
//	passwd     change the password
//	suggest    list users who are not yet friends
//	logout     forget the access token
//	help       show available commands
//	exit       leave the program
//
// Passwords are read without echo and wiped after use.
package cli
