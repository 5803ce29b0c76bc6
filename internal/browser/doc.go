// Package browser reads cookies out of browser cookie stores so they can be
// imported into the cookies directory. Firefox and Chrome SQLite databases
// and Netscape cookie files are supported; Chrome values encrypted by the OS
// keychain are skipped.
//
// Cookie values never appear in errors or log output.
package browser
